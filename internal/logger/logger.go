package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the output format and the optional Sentry sink.
type Options struct {
	Service     string // Added to every record as "service"
	Environment string
	Development bool // Text output at Debug instead of JSON at Info
	SentryDSN   string
}

// Init installs the process-wide slog default and returns a flush function
// to call before exit. Error records are also forwarded to Sentry when a
// DSN is configured.
func Init(opts Options) (flush func()) {
	flush = func() {}

	var handlers []slog.Handler
	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
			ServerName:  opts.Service,
		})
		if err != nil {
			slog.Warn("sentry disabled", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	handler := handlers[0]
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	slog.SetDefault(logger)

	return flush
}
