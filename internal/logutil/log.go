package logutil

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte
)

var (
	loggerKey = key(1)
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetOrDefault(ctx context.Context) zerolog.Logger {
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// RequestLogger returns the context logger enriched with the method
// and path of the request being served.
func RequestLogger(r *http.Request) zerolog.Logger {
	return GetOrDefault(r.Context()).With().
		Str("http.method", r.Method).
		Str("http.path", r.URL.Path).
		Logger()
}
