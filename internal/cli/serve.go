package cli

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/apiclient"
	"github.com/johnwards/professionals/internal/ui"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			withStub, _ := cmd.Flags().GetBool("with-stub")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			frontend, err := ui.NewServer(ui.Options{
				Client:     apiclient.New(cfg.APIBaseURL, cfg.APITimeout),
				DateLayout: cfg.DateLayout,
				Location:   loc,
				RenderWait: cfg.RenderWait,
				SessionTTL: cfg.SessionTTL,
			})
			if err != nil {
				return err
			}
			defer frontend.Close()

			servers := map[string]*http.Server{
				"frontend": {Addr: cfg.Addr, Handler: frontend.Handler()},
			}
			if withStub {
				handler, db, err := newStubHandler(ctx, cfg, true)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				servers["stub-api"] = &http.Server{Addr: cfg.StubAddr, Handler: handler}
			}

			return runServers(ctx, servers)
		},
	}
	cmd.Flags().String("addr", "", "frontend listen address (overrides PROFESSIONALS_ADDR)")
	cmd.Flags().Bool("with-stub", false, "also run the stub API")
	cmd.Flags().String("stub-addr", "", "stub API listen address, with --with-stub")
	cmd.Flags().String("db", "", "stub API database path, with --with-stub")
	return cmd
}
