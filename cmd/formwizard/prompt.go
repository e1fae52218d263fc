package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/dictionary"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func (a *app) tuiRenderer(dicts *dictionary.Registry, opts ...tui.Option) *tui.Renderer {
	base := []tui.Option{
		tui.WithPromptDriver(a.driver),
		tui.WithStyles(a.styles()),
		tui.WithTranslator(a.translator(), a.cfg.Locale),
		tui.WithProvider(dicts),
		tui.WithEvaluator(a.evaluator()),
		tui.WithLogger(a.logger),
	}
	return tui.New(append(base, opts...)...)
}

func promptCmd(a *app) *cobra.Command {
	var (
		step     string
		format   string
		output   string
		navigate bool
	)
	cmd := &cobra.Command{
		Use:   "prompt <code|source>",
		Short: "Fill a document wizard in the terminal",
		Long: `Walk through a document step by step in the terminal and print the collected
answers once the final step is confirmed.`,
		Example: `  formwizard prompt marriage_contract --format pretty
  formwizard prompt ./docs/claim.yaml --navigate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch tui.OutputFormat(format) {
			case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("invalid format: %s (valid: json, form, pretty)", format)
			}

			ctx := cmd.Context()
			dicts, err := a.dictionaries()
			if err != nil {
				return err
			}
			req, err := a.request(ctx, args[0], dicts)
			if err != nil {
				return err
			}
			req.Step = step
			session, err := a.orchestrator(dicts).Session(ctx, req)
			if err != nil {
				return err
			}

			renderer := a.tuiRenderer(dicts,
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithNavigation(navigate),
			)
			out, err := renderer.RunWizard(ctx, session)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), a.styles().Warn.Render("! aborted"))
				return nil
			}
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0o600); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Answers written to %s\n", output)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "start at this step")
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format: json, form, pretty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&navigate, "navigate", false, "ask after each step whether to continue or go back")
	return cmd
}
