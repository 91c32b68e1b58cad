// Command sessiond serves a session-backed counter.
//
//	sessiond          serve HTTP until SIGINT or SIGTERM
//	sessiond reset    wipe every stored session and exit
//
// The backend is chosen by SESSION_STORE (memory, redis, postgres or mongo).
// All other settings come from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

var errUnknownCommand = errors.New("unknown command")

type appConfig struct {
	Store string `env:"SESSION_STORE" envDefault:"memory"`
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		slog.Error("sessiond failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logCfg  logger.Config
		appCfg  appConfig
		sessCfg session.Config
		httpCfg httpserver.Config
	)
	for _, err := range []error{
		config.Load(&logCfg),
		config.Load(&appCfg),
		config.Load(&sessCfg),
		config.Load(&httpCfg),
	} {
		if err != nil {
			return err
		}
	}

	env := environment.Parse(logCfg.Env)
	log := logger.NewFromConfig(logCfg,
		logger.WithContextExtractors(environment.LoggerExtractor(), requestIDExtractor),
	)
	logger.SetAsDefault(log)

	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}
	if cmd != "serve" && cmd != "reset" {
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd)
	}

	b, err := openBackend(ctx, appCfg.Store, log)
	if err != nil {
		return err
	}
	defer b.close()

	mgr, err := session.New(
		session.WithStore(b.store),
		session.WithConfig(sessCfg),
		session.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	if cmd == "reset" {
		if err := mgr.ClearAll(ctx); err != nil {
			return err
		}
		log.InfoContext(ctx, "all sessions cleared", logger.Store(b.name))
		return nil
	}

	for _, job := range b.jobs {
		go job(ctx)
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, newRouter(mgr, log, env, b.checks...))
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return logger.RequestID(id), true
	}
	return slog.Attr{}, false
}
