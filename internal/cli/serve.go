package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/artspot/internal/logging"
	"github.com/Makepad-fr/artspot/internal/server"
)

func newServeCmd(opt *Options) *cobra.Command {
	var (
		addr   string
		secure bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for a map widget",
		Args:  exactArgs(0, "artspot serve [--addr host:port]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), opt, logging.Stderr)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)

			sentryOn, err := server.InitSentry(server.SentryConfig{DSN: e.cfg.Server.SentryDSN, Environment: "production"}, e.logger)
			if err != nil {
				e.logger.Warn("error reporting disabled", zap.Error(err))
			}
			if sentryOn {
				defer server.FlushSentry()
			}

			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			srv := server.New(e.catalog, e.geocoder, e.logger, server.Options{
				CookieName:    e.cfg.Found.Key,
				Retention:     e.cfg.Found.RetentionPeriod(),
				SearchTimeout: e.cfg.Geocoder.RequestTimeout(),
				SecureCookie:  secure,
				Sentry:        sentryOn,
			})
			e.logger.Info("serving artworks", zap.String("source", e.source), zap.Int("count", e.catalog.Len()))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&secure, "secure-cookie", false, "mark the found cookie Secure (behind TLS)")
	return cmd
}
