package main

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/yuuuno/sweeper/internal/config"
	"github.com/yuuuno/sweeper/internal/database"
	"github.com/yuuuno/sweeper/internal/handlers"
	"github.com/yuuuno/sweeper/internal/middleware"
	"github.com/yuuuno/sweeper/internal/repository"
)

//go:embed migrations
var migrations embed.FS

func newLogger() *slog.Logger {
	if config.Development() {
		return slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func main() {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	app := &application{
		logger: logger,
		ws:     config.NewWebSocket(),
	}

	// Without a database the service still solves; it just records
	// nothing and has no accounts.
	var auth *handlers.AuthHandler
	mws := []middleware.Middleware{
		middleware.Logging(logger),
		middleware.Cors(),
	}
	if _, err := config.DatabaseURL(); err != nil {
		logger.Warn("starting stateless", slog.Any("reason", err))
	} else {
		pool, err := database.ConnectAndMigrate(ctx, migrations)
		if err != nil {
			logger.Error("unable to connect to db", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		app.repo = repository.New(pool)

		jwt, err := config.NewJWT()
		if err != nil {
			logger.Error("unable to load JWT keys", slog.Any("error", err))
			os.Exit(1)
		}
		cookies, err := config.NewCookies(jwt)
		if err != nil {
			logger.Error("unable to read cookie config", slog.Any("error", err))
			os.Exit(1)
		}
		auth = handlers.NewAuthHandler(logger, app.repo, cookies, jwt)
		mws = append(mws, middleware.Auth(cookies))
	}

	server := &http.Server{
		Addr:    config.Addr(),
		Handler: middleware.Wrap(app.routes(auth), mws...),
	}
	run(ctx, logger, server)
}

func run(ctx context.Context, logger *slog.Logger, server *http.Server) {
	logger.Info("solver online", slog.String("addr", server.Addr))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("exit reason", slog.Any("error", err))
		os.Exit(1)
	}
}
