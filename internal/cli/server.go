package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// runServers serves every srv until ctx is done or one of them fails, then
// shuts all of them down.
func runServers(ctx context.Context, servers map[string]*http.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		g.Go(func() error {
			slog.Info("starting server", "server", name, "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listen: %w", name, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			slog.Info("shutting down server", "server", name)
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("%s shutdown: %w", name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
