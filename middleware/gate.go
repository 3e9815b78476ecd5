// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/danielhkuo/homegrade/auth"
	"github.com/danielhkuo/homegrade/metrics"
	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/roles"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session"

// AnyRole allows both homebuyers and realtors
var AnyRole = []string{models.RoleHomebuyer, models.RoleRealtor}

type userIDKey struct{}

// UserID returns the authenticated account ID stored by Authenticate
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// SessionToken reads the session from the cookie, falling back to a
// bearer Authorization header
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Gate rejects unauthenticated requests and callers whose role is not
// allowed by a route
type Gate struct {
	db         *sql.DB
	sessionKey string
	metrics    *metrics.Manager
}

func NewGate(db *sql.DB, sessionKey string, m *metrics.Manager) *Gate {
	return &Gate{db: db, sessionKey: sessionKey, metrics: m}
}

// Authenticate redirects to the login page unless the request carries a
// valid session
func (g *Gate) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.ParseSession(SessionToken(r), g.sessionKey)
		if err != nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	}
}

// Require authenticates the request, resolves the caller's role and
// rejects it with 403 unless the role is in allowed
func (g *Gate) Require(allowed []string, next http.HandlerFunc) http.HandlerFunc {
	return g.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserID(r.Context())

		role, err := roles.Resolve(r.Context(), g.db, userID)
		if errors.Is(err, roles.ErrUnresolved) {
			g.metrics.RecordUnresolvedRole()
			slog.Error("account has no role", "user_id", userID)
			ErrorResponse(w, http.StatusInternalServerError, "Account is misconfigured")
			return
		}
		if err != nil {
			slog.Error("failed to resolve role", "error", err, "user_id", userID)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if !slices.Contains(allowed, role.Kind) {
			ErrorResponse(w, http.StatusForbidden, "Not allowed for "+role.Kind+" accounts")
			return
		}

		next(w, r.WithContext(roles.WithRole(r.Context(), role)))
	})
}
