package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/apiclient"
	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
)

// errListFailed is returned when the remote API could not be listed.
var errListFailed = errors.New("could not load professionals")

var badgeColors = map[domain.Source]*color.Color{
	domain.SourceDirect:   color.New(color.FgHiBlue),
	domain.SourcePartner:  color.New(color.FgHiGreen),
	domain.SourceInternal: color.New(color.FgYellow),
}

// ListCmd returns the list command.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List professionals from the remote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			source, _ := cmd.Flags().GetString("source")
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			lv := views.NewListingView(apiclient.New(cfg.APIBaseURL, cfg.APITimeout))
			defer lv.Close()

			if err := lv.SetFilter(domain.Source(source)); err != nil {
				return err
			}
			lv.Observe(0)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.APITimeout+time.Second)
			defer cancel()
			if err := lv.Settle(ctx); err != nil {
				return fmt.Errorf("wait for listing: %w", err)
			}

			snap := lv.Snapshot()
			if snap.Failed {
				return errListFailed
			}
			return printProfessionals(cmd.OutOrStdout(), snap.Records, cfg.DateLayout, loc)
		},
	}
	cmd.Flags().String("source", "", "only list professionals from this source (direct, partner, internal)")
	return cmd
}

func printProfessionals(out io.Writer, records []domain.Professional, layout string, loc *time.Location) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No professionals found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tJOB TITLE\tCOMPANY\tSOURCE\tCREATED")
	for _, p := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.FullName,
			dash(p.Email),
			dash(p.Phone),
			dash(p.JobTitle),
			dash(p.CompanyName),
			badge(p.Source),
			p.CreatedAt.In(loc).Format(layout),
		)
	}
	return w.Flush()
}

func badge(s domain.Source) string {
	if c, ok := badgeColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
