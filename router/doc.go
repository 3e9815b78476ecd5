// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the homegrade API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, mail.New(cfg.SMTP), metrics.NewManager())

# Endpoints

Operational:

	GET /health  - Liveness check
	GET /metrics - Prometheus exposition

Session:

	GET  /login  - Login form, or redirect home when already logged in
	POST /login  - Log in
	POST /logout - Clear the session

Homebuyer or realtor:

	GET /home                       - Role specific home view
	GET /couples/{couple_id}/ranking - Ranked houses of a couple

Realtor:

	POST /home                        - Invite a couple
	POST /couples/{couple_id}/houses  - Add a house

Homebuyer:

	GET  /houses/{house_id}/eval - Evaluation of one house
	POST /houses/{house_id}/eval - Save a grade (XMLHttpRequest only)
	POST /categories             - Add a category to the couple

Every route except /health and /metrics is logged and counted under its
path pattern.
*/
package router
