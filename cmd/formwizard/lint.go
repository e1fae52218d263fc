package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

func lintCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "lint <source>...",
		Short: "Check documents for structural and reference errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dicts, err := a.dictionaries()
			if err != nil {
				return err
			}
			loader := a.loader()
			styles := a.styles()
			out := cmd.OutOrStdout()

			failed := 0
			for _, arg := range args {
				src, err := schema.ParseSource(arg)
				if err != nil {
					return err
				}
				doc, err := loader.Load(ctx, src)
				if err != nil {
					return err
				}
				result := schema.Lint(doc, schema.WithEvaluator(a.evaluator()), schema.WithDictionaries(dicts))
				if len(result.Issues) == 0 {
					fmt.Fprintln(out, styles.Success.Render("✓ "+arg))
					continue
				}
				if !result.Valid || strict {
					failed++
					fmt.Fprintln(out, styles.Error.Render("✗ "+arg))
				} else {
					fmt.Fprintln(out, styles.Warn.Render("! "+arg))
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(out)
				tw.AppendHeader(table.Row{"Severity", "Path", "Message"})
				for _, issue := range result.Issues {
					tw.AppendRow(table.Row{issue.Severity, issue.Path, issue.Message})
				}
				tw.Render()
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d document(s) failed lint", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}
