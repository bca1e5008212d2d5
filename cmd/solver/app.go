package main

import (
	"log/slog"
	"net/http"

	"github.com/yuuuno/sweeper/internal/config"
	"github.com/yuuuno/sweeper/internal/handlers"
	"github.com/yuuuno/sweeper/internal/repository"
)

type application struct {
	logger *slog.Logger
	repo   *repository.Queries
	ws     *config.WebSocket
}

func (app *application) routes(auth *handlers.AuthHandler) *http.ServeMux {
	solve := handlers.NewSolveHandler(app.logger, app.repo)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /solve", solve.HandleSolve)
	mux.Handle("GET /solve/ws", solve.HandleSolveWS(app.ws))
	mux.HandleFunc("GET /runs", solve.HandleListRuns)
	if auth != nil {
		mux.HandleFunc("POST /register", auth.HandleRegister)
		mux.HandleFunc("POST /login", auth.HandleLogin)
		mux.HandleFunc("POST /logout", auth.HandleLogout)
	}
	return mux
}
