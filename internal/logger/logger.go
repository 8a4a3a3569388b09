package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the output format and the optional Sentry sink.
type Options struct {
	Development bool
	Environment string
	SentryDSN   string
}

// Init builds the process logger from opts and installs it as the slog
// default.
func Init(opts Options) *slog.Logger {
	log := New(os.Stdout, opts)
	slog.SetDefault(log)
	return log
}

// New writes text at debug level in development and JSON at info level
// otherwise. Errors are also sent to Sentry when a DSN is set.
func New(w io.Writer, opts Options) *slog.Logger {
	var handlers []slog.Handler

	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Flush waits for buffered Sentry events before exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}
