// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the homegrade API server.

homegrade connects realtors with the homebuyer couples they work for.
Realtors invite couples and add houses; each homebuyer grades every house
against the couple's own categories on a five step scale from "Hate it" to
"Love it", and the couple's houses are ranked from those grades.

# Starting the Server

	DATABASE_URL=homegrade.db SESSION_KEY=... INVITE_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-key ... -invite-salt ...

Settings are also read from a .env file (-env-file).

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - SESSION_KEY (-session-key): HMAC key for session tokens
  - INVITE_SALT (-invite-salt): secret for hashing invite tokens

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (-base-url): public URL used in invite links; its origin may
    make cross-origin requests
  - ALLOWED_ORIGINS: extra comma separated origins for cross-origin requests
  - SESSION_TTL: session lifetime (default: 72h)
  - LOG_LEVEL, LOG_FORMAT: slog level and text or json output
  - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM: invite
    delivery; without SMTP_HOST invites are only logged

# Architecture

  - handlers: HTTP request handlers (session, home, evaluation, houses, ranking)
  - router: Route definitions using Go 1.22+ routing
  - middleware: session and role gate, CORS, logging, metrics, JSON helpers
  - roles: resolves an account to its homebuyer or realtor role
  - models: request, response and domain types, score choices
  - auth: passwords, session tokens, invite tokens
  - mail: invite delivery over SMTP
  - metrics: Prometheus collectors
  - db: driver selection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
