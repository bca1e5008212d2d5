package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/yuuuno/sweeper/internal/config"
	"github.com/yuuuno/sweeper/internal/repository"
)

var (
	ErrBadAuthBody   = fmt.Errorf("request body must contain url-encoded username and password")
	ErrUsernameTaken = fmt.Errorf("username taken")
)

type AuthHandler struct {
	logger  *slog.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuthHandler(
	logger *slog.Logger,
	repo *repository.Queries,
	cookies *config.Cookies,
	jwt *config.JWT,
) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		repo:    repo,
		cookies: cookies,
		jwt:     jwt,
	}
}

func (h *AuthHandler) credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	return username, password, nil
}

func (h *AuthHandler) issueCookies(w http.ResponseWriter, account *repository.Account) error {
	claims := config.NewAccountClaims(account.AccountId, account.Username)
	token, err := h.jwt.Sign(claims)
	if err != nil {
		return fmt.Errorf("failed to sign account claims: %w", err)
	}
	return h.cookies.Refresh(w, token)
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username, password, err := h.credentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		SendErrorOrLog(w, h.logger, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		SendErrorOrLog(w, h.logger, err)
		return
	}

	account, err := h.repo.CreateAccount(r.Context(), username, hash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		w.WriteHeader(http.StatusConflict)
		SendErrorOrLog(w, h.logger, ErrUsernameTaken)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not create account", slog.Any("error", err))
		return
	}

	if err := h.issueCookies(w, account); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not issue cookies", slog.Any("error", err))
		return
	}
	SendMessageOrLog(w, h.logger, "ok")
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, err := h.credentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		SendErrorOrLog(w, h.logger, err)
		return
	}

	account, err := h.repo.GetAccount(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusUnauthorized)
		h.logger.Debug("username not found")
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not fetch account", slog.Any("error", err))
		return
	}

	err = bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		h.logger.Debug("wrong password")
		return
	}

	if err := h.issueCookies(w, account); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not issue cookies", slog.Any("error", err))
		return
	}
	SendMessageOrLog(w, h.logger, "ok")
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	SendMessageOrLog(w, h.logger, "ok")
}
