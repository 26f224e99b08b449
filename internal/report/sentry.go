package report

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initializes the Sentry client. An empty dsn disables reporting
// without failing.
func SetupSentry(dsn, env string) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		EnableTracing:    dsn != "",
		TracesSampleRate: 0.2,
	}); err != nil {
		return err
	}
	if dsn == "" {
		slog.Info("sentry disabled, no DSN configured")
	}
	return nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
