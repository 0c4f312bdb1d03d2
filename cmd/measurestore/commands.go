package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/measurestore/aggregate"
)

func newSelectCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "select <document>",
		Short: "Print one aggregated row per key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := s.store.Select(splitColumns(by)...)
			if err != nil {
				return err
			}
			return s.print(rows)
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "comma separated group columns (empty groups everything)")
	return cmd
}

func newMembersCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "members <document>",
		Short: "Print the distinct keys of a dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, args[0])
			if err != nil {
				return err
			}
			keys, err := s.store.Members(splitColumns(by)...)
			if err != nil {
				return err
			}
			return s.print(keys)
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "comma separated dimension columns")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newArrayCmd() *cobra.Command {
	var by, of, kind string
	cmd := &cobra.Command{
		Use:   "array <document>",
		Short: "Print one aggregate of a measure per key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := aggregate.ParseKind(kind)
			if err != nil {
				return err
			}
			s, err := open(cmd, args[0])
			if err != nil {
				return err
			}
			values, err := s.store.SelectArray(splitColumns(by), of, k)
			if err != nil {
				return err
			}
			return s.print(values)
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "comma separated group columns (empty groups everything)")
	cmd.Flags().StringVar(&of, "of", "", "measure column")
	cmd.Flags().StringVar(&kind, "kind", "mean", "aggregate: count|sum|mean|median|min|max|var|stddev|stderr|countdistinct|values|value")
	_ = cmd.MarkFlagRequired("of")
	return cmd
}

func newSeriesCmd() *cobra.Command {
	var rows, cols, of, kind string
	cmd := &cobra.Command{
		Use:   "series <document>",
		Short: "Print a row by column grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, args[0])
			if err != nil {
				return err
			}
			if of == "" {
				series, err := s.store.SelectSeries(splitColumns(rows), splitColumns(cols))
				if err != nil {
					return err
				}
				return s.print(series)
			}
			k, err := aggregate.ParseKind(kind)
			if err != nil {
				return err
			}
			series, err := s.store.SelectSeriesArray(splitColumns(rows), splitColumns(cols), of, k)
			if err != nil {
				return err
			}
			return s.print(series)
		},
	}
	cmd.Flags().StringVar(&rows, "rows", "", "comma separated row dimension columns")
	cmd.Flags().StringVar(&cols, "cols", "", "comma separated column dimension columns")
	cmd.Flags().StringVar(&of, "of", "", "measure column; without it every cell holds the full row")
	cmd.Flags().StringVar(&kind, "kind", "mean", "aggregate used with --of")
	return cmd
}
