// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

	mux.HandleFunc("GET /home", middleware.WithLogging(
		middleware.Instrument(m, "/home", handler)))

WithLogging logs request start and completion (status, duration_ms).
Instrument records request count and latency under a fixed route label.

# Access Control

Gate checks the session (cookie "session" or a bearer token) and the
caller's role:

	gate := middleware.NewGate(db, cfg.SessionKey, m)
	mux.HandleFunc("POST /home", gate.Require([]string{models.RoleRealtor}, h.InviteCouple))

Requests without a valid session are redirected to /login?next=<path>.
A role outside the allowed list gets 403. An account with no role gets 500.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins, mux),
	}

Only the configured origins get CORS headers (methods GET, POST, OPTIONS;
headers Content-Type, Authorization, X-Requested-With). Preflights from any
other origin get 403, so a foreign page cannot send X-Requested-With.

# JSON and Validation Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	if err := middleware.Validate(req); err != nil {
		middleware.ValidationErrorResponse(w, err)
		return
	}

IsJSON and IsAJAX inspect the Content-Type and X-Requested-With headers.
*/
package middleware
