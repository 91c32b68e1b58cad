package session

import (
	"bufio"
	"errors"
	"net"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Middleware loads the session before the handler runs and commits it when
// the response starts, or after the handler returns if it wrote nothing.
// Changes made to the record after the first write are not persisted.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := m.Load(r)
		ctx := WithRecord(r.Context(), rec)

		sw := &sessionWriter{ResponseWriter: w}
		sw.commit = func() {
			if err := m.Save(ctx, w, rec); err != nil {
				m.log.WarnContext(ctx, "session token not attached",
					logger.Component("session"),
					logger.Event("transport"),
					logger.Error(err),
				)
			}
		}

		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.finalize()
	})
}

// Handler adapts a handler that needs the session record. A missing record
// means the middleware is not installed and yields a 500.
func Handler(fn func(w http.ResponseWriter, r *http.Request, rec *Record)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, err := Require(r.Context())
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		fn(w, r, rec)
	})
}

// sessionWriter commits the session exactly once, before headers are sent.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) finalize() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.finalize()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.finalize()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Flush() {
	w.finalize()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *sessionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.finalize()
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("session: response writer does not support hijacking")
	}
	return h.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
