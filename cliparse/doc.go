// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Postgres connection string or sqlite file (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionKey: Secret for signing session tokens (required)
  - InviteSalt: Secret for hashing invitation tokens (required)
  - SessionTTL: Session lifetime (default: 72h)
  - BaseURL: Public URL used in invitation links
  - SMTP: Outgoing mail settings; invites are only logged when SMTP_HOST is empty

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-base-url      Public base URL
	-session-key   Session signing key
	-invite-salt   Invite token salt
	-env-file      Dotenv file to load first (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	BASE_URL      → -base-url
	SESSION_KEY   → -session-key
	INVITE_SALT   → -invite-salt

Environment-only settings: SESSION_TTL, LOG_LEVEL, LOG_FORMAT, SMTP_HOST,
SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM.

The dotenv file never overrides variables that are already set, and CLI
flags take precedence over both.
*/
package cliparse
