package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/measurestore/loader"
)

// listing is one stored document as printed by ls --load.
type listing struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func newListCmd() *cobra.Command {
	var loadDocs bool
	cmd := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List stored documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, s, l, err := connect(cmd)
			if err != nil {
				return err
			}
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}
			if !loadDocs {
				names, err := l.List(ctx, prefix)
				if err != nil {
					return err
				}
				if names == nil {
					names = []string{}
				}
				return s.print(names)
			}

			names, stores, err := l.LoadPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			out := make([]listing, len(names))
			for i, name := range names {
				out[i] = listing{Name: name, Rows: stores[i].Size(), Columns: len(stores[i].Columns())}
			}
			return s.print(out)
		},
	}
	cmd.Flags().BoolVar(&loadDocs, "load", false, "load every listed document and report its size")
	return cmd
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <document> <file>",
		Short: "Store a local response file, compressed for the document name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, s, l, err := connect(cmd)
			if err != nil {
				return err
			}
			src := args[1]
			raw, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			data, err := loader.Decompress(loader.CompressionFor(src), raw)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(src), err)
			}
			if err := l.Save(ctx, args[0], data); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "stored document", "name", args[0], "source", src)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <document>...",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, l, err := connect(cmd)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := l.Delete(ctx, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
