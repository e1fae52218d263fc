package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/render"
)

func renderCmd(a *app) *cobra.Command {
	var (
		step     string
		renderer string
		action   string
		output   string
		preset   string
		partial  bool
	)
	cmd := &cobra.Command{
		Use:   "render <code|source>",
		Short: "Render one wizard step to HTML or JSON",
		Long: `Render one step of a document to HTML. The argument is either the code of a
loaded document or a file path / URL.`,
		Example: `  formwizard render power_of_attorney --step powers
  formwizard render ./docs/claim.yaml --output claim.html --preset labels.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dicts, err := a.dictionaries()
			if err != nil {
				return err
			}

			var extra []orchestrator.Option
			if preset != "" {
				transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
				if err != nil {
					return err
				}
				extra = append(extra, orchestrator.WithSchemaTransformer(transformer))
			}

			req, err := a.request(ctx, args[0], dicts)
			if err != nil {
				return err
			}
			req.Step = step
			req.Renderer = renderer
			req.Action = action
			req.RenderOptions = render.RenderOptions{Partial: partial}

			out, err := a.orchestrator(dicts, extra...).Generate(ctx, req)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Step written to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "step id (default: first step)")
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "html", "renderer: html or json")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&preset, "preset", "", "JSON preset relabelling the document")
	cmd.Flags().BoolVar(&partial, "partial", false, "render only the widgets")
	return cmd
}
