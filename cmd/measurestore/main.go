// Command measurestore loads a stored query response and prints aggregates of it.
//
//	measurestore select physical.json.zst --by Gender --filter Visit="Visit 1"
//	measurestore array physical.json --by Visit --of Weight --kind mean
//	measurestore series physical.json --rows Gender --cols Visit --of Weight
//
// Flags can also be set in a config file (--config) or with MEASURESTORE_* environment
// variables, e.g. MEASURESTORE_BACKEND=s3 MEASURESTORE_BUCKET=responses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
