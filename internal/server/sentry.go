package server

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// SentryConfig mirrors the sentry.ClientOptions artspot cares about.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry enables error reporting when a DSN is configured.
// It reports whether Sentry is active.
func InitSentry(cfg SentryConfig, logger *zap.Logger) (bool, error) {
	if cfg.DSN == "" {
		logger.Debug("Sentry DSN not configured - error tracking disabled")
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// the found cookie is user data
			if event.Request != nil {
				delete(event.Request.Headers, "Cookie")
				delete(event.Request.Headers, "Authorization")
				event.Request.Cookies = ""
			}
			return event
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	logger.Info("Sentry initialized", zap.String("environment", cfg.Environment))
	return true, nil
}

// FlushSentry waits briefly for queued events.
func FlushSentry() { sentry.Flush(2 * time.Second) }
