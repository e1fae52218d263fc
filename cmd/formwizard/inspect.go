package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func inspectCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <code|source>",
		Short: "Show the steps of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dicts, err := a.dictionaries()
			if err != nil {
				return err
			}
			req, err := a.request(ctx, args[0], dicts)
			if err != nil {
				return err
			}
			session, err := a.orchestrator(dicts).Session(ctx, req)
			if err != nil {
				return err
			}
			doc := session.Document()

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				writeStepsTable(out, doc)
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("invalid format: %s (valid: table, json, yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml")
	return cmd
}

func writeStepsTable(out io.Writer, doc model.DocumentSchema) {
	fmt.Fprintf(out, "%s (%s)\n", doc.Title, doc.Code)
	if doc.Category != "" {
		fmt.Fprintf(out, "Category: %s\n", doc.Category)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"#", "ID", "Type", "Title", "Fields", "Next"})
	for idx, step := range doc.Steps() {
		tw.AppendRow(table.Row{idx + 1, step.ID, step.Type, step.Heading(), declaredFields(step), describeNext(step.Next)})
	}
	tw.Render()

	if len(doc.Parsed.Placeholders) > 0 {
		fmt.Fprintf(out, "Placeholders: %s\n", strings.Join(doc.Parsed.Placeholders, ", "))
	}
}

// declaredFields counts the field definitions a step carries, across manual
// fields, blocks and the bank card template.
func declaredFields(step model.StepDefinition) int {
	count := len(step.Fields) + len(step.ManualFields)
	for _, block := range step.Blocks {
		count += len(block)
	}
	if step.BankCardTemplate != nil {
		count += len(step.BankCardTemplate.Fields)
	}
	return count
}

func describeNext(next model.NextRule) string {
	switch {
	case next.Step != "":
		return next.Step
	case len(next.ByValue) > 0:
		keys := make([]string, 0, len(next.ByValue))
		for key := range next.ByValue {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+" → "+next.ByValue[key])
		}
		return strings.Join(parts, "; ")
	case len(next.Candidates) > 0:
		return strings.Join(next.Candidates, " | ")
	default:
		return "(following)"
	}
}
