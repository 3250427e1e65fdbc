package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/api/admin"
	"github.com/johnwards/professionals/internal/api/professionals"
	"github.com/johnwards/professionals/internal/config"
	"github.com/johnwards/professionals/internal/database"
	"github.com/johnwards/professionals/internal/seed"
	"github.com/johnwards/professionals/internal/store"
)

// StubAPICmd returns the stub-api command.
func StubAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub-api",
		Short: "Run the SQLite-backed development API",
		Long: `stub-api serves /api/professionals/ backed by a local SQLite file so the
frontend can be developed and tested without the real backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			noSeed, _ := cmd.Flags().GetBool("no-seed")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler, db, err := newStubHandler(ctx, cfg, !noSeed)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return runServers(ctx, map[string]*http.Server{
				"stub-api": {Addr: cfg.StubAddr, Handler: handler},
			})
		},
	}
	cmd.Flags().String("stub-addr", "", "listen address (overrides PROFESSIONALS_STUB_ADDR)")
	cmd.Flags().String("db", "", "SQLite database path (overrides PROFESSIONALS_DB)")
	cmd.Flags().Bool("no-seed", false, "do not insert sample professionals into an empty database")
	return cmd
}

// newStubHandler opens and migrates the stub database and returns the
// fully wrapped stub API handler.
func newStubHandler(ctx context.Context, cfg config.Config, withSeed bool) (http.Handler, *sql.DB, error) {
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	s := store.New(db)
	if withSeed {
		if err := seed.Seed(ctx, s.Professionals); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("seed data: %w", err)
		}
	}

	mux := http.NewServeMux()
	professionals.RegisterRoutes(mux, s.Professionals)
	admin.RegisterRoutes(mux, s)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteDetail(w, http.StatusNotFound, "Not found.")
	})

	handler := api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.CORS(cfg.AllowedOrigins),
		api.RateLimit(cfg.StubRateLimit, cfg.StubRateBurst),
		api.JSONContentType(),
		admin.RequestLog(s.Requests),
		api.Logging(),
	)
	return handler, db, nil
}
