package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func dictionariesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dictionaries [name]",
		Aliases: []string{"dicts"},
		Short:   "List dictionaries or the options of one dictionary",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dicts, err := a.dictionaries()
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())

			if len(args) == 0 {
				tw.AppendHeader(table.Row{"Dictionary", "Options"})
				for _, name := range dicts.Names() {
					tw.AppendRow(table.Row{name, len(dicts.Options(name))})
				}
				tw.Render()
				return nil
			}

			if !dicts.Has(args[0]) {
				return fmt.Errorf("unknown dictionary %q", args[0])
			}
			tw.AppendHeader(table.Row{"Value", "Label"})
			for _, opt := range dicts.Options(args[0]) {
				tw.AppendRow(table.Row{opt.Value, opt.Label})
			}
			tw.Render()
			return nil
		},
	}
}
