package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Init installs the default slog logger.
// Development: text to stdout at Debug.
// Otherwise: JSON to stdout at Info.
// With a Sentry DSN, Error records are also sent to Sentry.
func Init(isDev bool, sentryDSN string) {
	slog.SetDefault(slog.New(handler(isDev, sentryDSN)))
}

func handler(isDev bool, sentryDSN string) slog.Handler {
	var base slog.Handler
	if isDev {
		base = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	if sentryDSN == "" {
		return base
	}

	err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN})
	if err != nil {
		slog.New(base).Error("failed to initialize sentry", "error", err)
		return base
	}

	return slogmulti.Fanout(
		base,
		slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
	)
}

// Flush waits briefly for buffered Sentry events before exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}
