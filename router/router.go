// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/danielhkuo/homegrade/cliparse"
	"github.com/danielhkuo/homegrade/handlers"
	"github.com/danielhkuo/homegrade/mail"
	"github.com/danielhkuo/homegrade/metrics"
	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
)

var (
	homebuyerOnly = []string{models.RoleHomebuyer}
	realtorOnly   = []string{models.RoleRealtor}
)

func NewRouter(db *sql.DB, cfg cliparse.Config, mailer mail.Mailer, m *metrics.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	gate := middleware.NewGate(db, cfg.SessionKey, m)
	sessionHandler := handlers.NewSessionHandler(db, cfg, m)
	homeHandler := handlers.NewHomeHandler(db, cfg, mailer, m)
	evalHandler := handlers.NewEvalHandler(db, m)
	houseHandler := handlers.NewHouseHandler(db)
	rankingHandler := handlers.NewRankingHandler(db)

	// handle registers pattern with logging and metrics under a fixed route label
	handle := func(pattern string, h http.HandlerFunc) {
		_, route, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.Instrument(m, route, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Session
	handle("GET /login", sessionHandler.LoginPage)
	handle("POST /login", sessionHandler.Login)
	handle("POST /logout", sessionHandler.Logout)

	// Home dispatch and invitations
	handle("GET /home", gate.Require(middleware.AnyRole, homeHandler.GetHome))
	handle("POST /home", gate.Require(realtorOnly, homeHandler.InviteCouple))

	// Evaluation
	handle("GET /houses/{house_id}/eval", gate.Require(homebuyerOnly, evalHandler.GetEval))
	handle("POST /houses/{house_id}/eval", gate.Require(homebuyerOnly, evalHandler.SubmitGrade))

	// Houses, categories and ranking
	handle("POST /couples/{couple_id}/houses", gate.Require(realtorOnly, houseHandler.CreateHouse))
	handle("POST /categories", gate.Require(homebuyerOnly, houseHandler.CreateCategory))
	handle("GET /couples/{couple_id}/ranking", gate.Require(middleware.AnyRole, rankingHandler.GetRanking))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("homegrade API v1"))
	})

	return mux
}
