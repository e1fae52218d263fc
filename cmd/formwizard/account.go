package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/account"
)

func accountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "account", Short: "Fill the registration or profile form in the terminal"}
	cmd.AddCommand(accountRegisterCmd(a), accountProfileCmd(a))
	return cmd
}

func accountRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := account.NewRegistration(
				account.WithTranslator(a.translator(), a.cfg.Locale),
				account.WithLogger(a.logger),
			)
			return a.runAccount(cmd, form)
		},
	}
}

func accountProfileCmd(a *app) *cobra.Command {
	var prefill map[string]string
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Edit an existing profile",
		Example: `  formwizard account profile --set fullName="Ada Lovelace" --set email=ada@example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := make(map[string]any, len(prefill))
			for key, value := range prefill {
				values[key] = value
			}
			form := account.NewProfile(values,
				account.WithTranslator(a.translator(), a.cfg.Locale),
				account.WithLogger(a.logger),
			)
			return a.runAccount(cmd, form)
		},
	}
	cmd.Flags().StringToStringVar(&prefill, "set", nil, "current profile value, key=value (repeatable)")
	return cmd
}

// runAccount prompts the form and prints the saved values as JSON. Password
// fields never reach the output.
func (a *app) runAccount(cmd *cobra.Command, form *account.Form) error {
	dicts, err := a.dictionaries()
	if err != nil {
		return err
	}
	result, err := a.tuiRenderer(dicts).RunAccount(cmd.Context(), form)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(result.Values, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
