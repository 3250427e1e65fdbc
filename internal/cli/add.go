package cli

import (
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/apiclient"
	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
)

var errNotCreated = errors.New("professional not created")

// AddCmd returns the add command. Each field is a flag named after its wire
// name with dashes, e.g. --full-name.
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a professional through the remote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			cv := views.NewCreationView(apiclient.New(cfg.APIBaseURL, cfg.APITimeout), nil)
			for _, f := range domain.Fields {
				if fl := cmd.Flags().Lookup(flagName(f)); fl != nil && fl.Changed {
					cv.SetField(f, fl.Value.String())
				}
			}

			if err := cv.Submit(cmd.Context()); err != nil {
				red := color.New(color.FgRed)
				for _, line := range cv.Snapshot().Errors {
					red.Fprintln(cmd.ErrOrStderr(), line)
				}
				return errNotCreated
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s\n", cv.Snapshot().Status)
			return nil
		},
	}

	cmd.Flags().String(flagName(domain.FieldFullName), "", "full name (required)")
	cmd.Flags().String(flagName(domain.FieldEmail), "", "email address")
	cmd.Flags().String(flagName(domain.FieldPhone), "", "phone number")
	cmd.Flags().String(flagName(domain.FieldJobTitle), "", "job title")
	cmd.Flags().String(flagName(domain.FieldCompanyName), "", "company name")
	cmd.Flags().String(flagName(domain.FieldSource), string(domain.SourceDirect), "source: direct, partner or internal")
	_ = cmd.MarkFlagRequired(flagName(domain.FieldFullName))
	return cmd
}

func flagName(f domain.Field) string {
	return strings.ReplaceAll(f.String(), "_", "-")
}
