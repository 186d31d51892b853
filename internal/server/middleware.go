package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 128

// RequestIDFrom returns the identifier assigned by [RequestID], or "".
func RequestIDFrom(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

// RequestID tags every request with an identifier, reusing the client's when
// present and no longer than 128 bytes. The identifier is echoed in the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		tagged := chimiddleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(RequestIDHeader, chimiddleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r)
		}))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get(RequestIDHeader); id == "" || len(id) > maxRequestIDLen {
				r.Header.Set(RequestIDHeader, shared.GenerateID())
			}
			tagged.ServeHTTP(w, r)
		})
	}
}

// requestLog is the chi log entry for one request, carrying a logger scoped to it.
type requestLog struct {
	logger *log.Logger
}

type logFormatter struct {
	logger *log.Logger
}

func (f logFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	return &requestLog{logger: shared.WithLogger(f.logger,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFrom(r.Context()),
	)}
}

func (l *requestLog) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		status = http.StatusOK
	}
	kv := []any{"status", status, "bytes", bytes, "duration", elapsed.Round(time.Microsecond)}
	if status >= http.StatusInternalServerError {
		l.logger.Warn("request", kv...)
	} else {
		l.logger.Info("request", kv...)
	}
}

func (l *requestLog) Panic(v any, stack []byte) {
	l.logger.Error("handler panic", "panic", v, "stack", string(stack))
}

// Logging logs one line per request at info level, or warn for 5xx responses.
// Handlers reach the request-scoped logger through [loggerFor].
func Logging(logger *log.Logger) Middleware {
	return chimiddleware.RequestLogger(logFormatter{logger: logger})
}

// loggerFor returns the logger attached by [Logging], or fallback outside it.
func loggerFor(r *http.Request, fallback *log.Logger) *log.Logger {
	if entry, ok := chimiddleware.GetLogEntry(r).(*requestLog); ok {
		return entry.logger
	}
	return fallback
}

// errorBodyWriter marks a bodiless 500 as JSON so the body written after
// recovery matches the declared type.
type errorBodyWriter struct {
	chimiddleware.WrapResponseWriter
}

func (w errorBodyWriter) WriteHeader(code int) {
	if code == http.StatusInternalServerError && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WrapResponseWriter.WriteHeader(code)
}

// Recover turns a handler panic into a 500 response with a JSON error body.
// The panic is reported through the [Logging] entry when one is present.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		recoverer := chimiddleware.Recoverer(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			recoverer.ServeHTTP(errorBodyWriter{ww}, r)

			if ww.Status() == http.StatusInternalServerError && ww.BytesWritten() == 0 {
				if err := json.NewEncoder(ww).Encode(errorResponse{Error: "internal error"}); err != nil {
					log.Error("failed to encode response", "error", err)
				}
			}
		})
	}
}

// Instrument records request counts and latencies per route pattern.
func Instrument(m *Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.observe(r.Method, route, strconv.Itoa(status), time.Since(start))
		})
	}
}

// RateLimit limits each client address to perMinute requests. Zero or less disables it.
func RateLimit(perMinute int) Middleware {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)
	return Middleware(limiter)
}

// CORS allows browser clients from origins to call the JSON API. No origins disables it.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
}
