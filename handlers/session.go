// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/homegrade/auth"
	"github.com/danielhkuo/homegrade/cliparse"
	"github.com/danielhkuo/homegrade/metrics"
	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
)

type SessionHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	metrics *metrics.Manager
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Manager) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg, metrics: m}
}

// LoginPage handles GET /login
// Already authenticated users are sent home; everyone else gets the form
func (h *SessionHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.ParseSession(middleware.SessionToken(r), h.cfg.SessionKey); err == nil {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FormDescriptor{
		Action: "/login?next=" + url.QueryEscape(safeNext(r.URL.Query().Get("next"))),
		Method: http.MethodPost,
		Fields: []string{"email", "password"},
	})
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := middleware.Validate(req); err != nil {
		middleware.ValidationErrorResponse(w, err)
		return
	}

	var userID, hash string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, password_hash FROM account WHERE email = $1
	`, req.Email).Scan(&userID, &hash)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if errors.Is(err, sql.ErrNoRows) || auth.CheckPassword(hash, req.Password) != nil {
		h.metrics.RecordLogin(false)
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := auth.IssueSession(userID, h.cfg.SessionKey, h.cfg.SessionTTL, time.Now())
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.RecordLogin(true)
	slog.Info("user logged in", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:    token,
		Redirect: safeNext(r.URL.Query().Get("next")),
	})
}

// Logout handles POST /logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// safeNext only allows local redirect targets
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/home"
	}
	return next
}
