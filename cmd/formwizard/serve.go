package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/server"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document wizards and account pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			handler, err := a.handler(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("server-addr", "", "listen address (default :8080)")
	cmd.Flags().Duration("server-session-ttl", 0, "idle lifetime of a visitor session (default 30m)")
	cmd.Flags().Bool("server-secure", false, "mark the session cookie Secure")
	return cmd
}

// handler builds the HTTP handler from the loaded configuration.
func (a *app) handler(ctx context.Context) (*server.Server, error) {
	dicts, err := a.dictionaries()
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog(ctx, dicts)
	if err != nil {
		return nil, err
	}
	srv, err := server.New(server.Config{
		Catalog:       catalog,
		Provider:      dicts,
		Evaluator:     a.evaluator(),
		Translator:    a.translator(),
		Locale:        a.cfg.Locale,
		SessionTTL:    a.cfg.Server.SessionTTL,
		SecureCookies: a.cfg.Server.Secure,
		Logger:        a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build server: %w", err)
	}
	a.logger.Info("documents loaded", zap.Int("count", len(catalog.List())))
	return srv, nil
}
