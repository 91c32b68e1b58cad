package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const counterKey = "counter"

func newRouter(mgr *session.Manager, log *slog.Logger, env environment.Environment, checks ...httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, environment.Middleware(env))

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))

	r.Group(func(r chi.Router) {
		r.Use(mgr.Middleware)
		r.Method(http.MethodGet, "/", session.Handler(increment))
		r.Method(http.MethodGet, "/peek", session.Handler(peek))
		r.Method(http.MethodPost, "/clear", session.Handler(clearSession))
		r.Method(http.MethodPost, "/logout", session.Handler(destroySession))
	})

	return r
}

func increment(w http.ResponseWriter, r *http.Request, rec *session.Record) {
	n, _ := rec.GetInt(counterKey)
	n++
	if err := rec.Set(counterKey, n); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Fprintf(w, "counter: %d\n", n)
}

// peek reports the counter without modifying the session.
func peek(w http.ResponseWriter, r *http.Request, rec *session.Record) {
	n, _ := rec.GetInt(counterKey)
	fmt.Fprintf(w, "counter: %d\n", n)
}

func clearSession(w http.ResponseWriter, r *http.Request, rec *session.Record) {
	rec.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func destroySession(w http.ResponseWriter, r *http.Request, rec *session.Record) {
	rec.Destroy()
	w.WriteHeader(http.StatusNoContent)
}
