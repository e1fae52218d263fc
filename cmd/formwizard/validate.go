package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

var errInvalidValue = errors.New("invalid value")

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <validator> <value> [confirmation]",
		Short: "Run an account validator against a value",
		Long: fmt.Sprintf(`Run one of the account validators (%s, confirm) against a value.
confirm compares a password with its confirmation.`, strings.Join(validation.Names(), ", ")),
		Example: `  formwizard validate email ada@example.com
  formwizard validate confirm secret1 secret1`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			switch name := strings.ToLower(args[0]); {
			case name == "confirm":
				if len(args) != 3 {
					return errors.New("confirm needs a password and its confirmation")
				}
				key = validation.ConfirmPassword(args[1], args[2])
			default:
				check, ok := validation.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown validator %q (valid: %s, confirm)", args[0], strings.Join(validation.Names(), ", "))
				}
				key = check(args[1])
			}

			styles := a.styles()
			if key == "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("✓ valid"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.Error.Render("✗ "+validation.Message(a.translator(), a.cfg.Locale, key)))
			return errInvalidValue
		},
	}
}
