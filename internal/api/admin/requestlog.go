package admin

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/store"
)

// maxLoggedBody is how much of a request body is kept in the log.
const maxLoggedBody = 4 << 10

type recorder struct {
	http.ResponseWriter
	code int
}

func (rw *recorder) WriteHeader(code int) {
	rw.code = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestLog returns middleware that appends every API request to s.
// Requests for the admin endpoints themselves are not logged.
func RequestLog(s store.RequestLogStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/_stub/") {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
				r.Body = readCloser{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
			}

			start := time.Now()
			rw := &recorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			entry := store.RequestLogEntry{
				Method:        r.Method,
				Path:          r.URL.Path,
				Query:         r.URL.RawQuery,
				StatusCode:    rw.code,
				RequestBody:   string(body),
				DurationMs:    time.Since(start).Milliseconds(),
				CorrelationID: api.CorrelationID(r.Context()),
			}
			if err := s.Record(context.WithoutCancel(r.Context()), entry); err != nil {
				slog.Warn("record request", "error", err, "path", r.URL.Path)
			}
		})
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
