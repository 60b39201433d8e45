package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

// maxLoggedBody caps how much of a request body is kept for debug logging.
const maxLoggedBody = 4 << 10

// sensitiveFields are matched as substrings of lowercased header and JSON keys.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"session",
	"credential",
}

// Logging writes one line per request at a level chosen by the status code.
// Request bodies are only logged at debug level, with sensitive fields masked.
func Logging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := logger.From(r.Context())
			if base != nil {
				lg = base
				if id := RequestIDFromContext(r.Context()); id != "" {
					lg = lg.With("request_id", id)
				}
				r = r.WithContext(logger.Into(r.Context(), lg))
			}

			var body []byte
			if lg.Enabled(r.Context(), slog.LevelDebug) && r.Body != nil && r.ContentLength <= maxLoggedBody {
				body, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if lg.Enabled(r.Context(), slog.LevelDebug) {
				attrs = append(attrs,
					"query", r.URL.RawQuery,
					"headers", filterHeaders(r.Header),
					"body", filterBody(body))
			}
			lg.Log(context.Background(), levelFor(rec.status), "request completed", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type recordingWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, f := range sensitiveFields {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func filterHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = "[FILTERED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED]"
		}
		return string(body)
	}
	masked, err := json.Marshal(mask(doc))
	if err != nil {
		return "[UNPRINTABLE]"
	}
	return string(masked)
}

func mask(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			if isSensitive(k) {
				out[k] = "[FILTERED]"
				continue
			}
			out[k] = mask(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = mask(item)
		}
		return out
	default:
		return v
	}
}
