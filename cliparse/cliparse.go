// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	SessionKey   string
	SessionTTL   time.Duration
	InviteSalt   string
	BaseURL      string
	LogLevel     string
	LogFormat    string
	SMTP         SMTPConfig

	// AllowedOrigins may make credentialed cross-origin requests. The
	// origin of BaseURL is always first.
	AllowedOrigins []string
}

// SMTPConfig holds the outgoing mail settings. An empty Host means invites
// are logged instead of sent.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ParseFlags validates flags and fills the remaining settings from the
// environment (after loading the optional .env file)
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := flag.NewFlagSet("homegrade", flag.ContinueOnError)

	flags.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.BaseURL, "base-url", "", "Public URL used in invitation links")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.SessionKey, "session-key", "", "Session signing key (prefer env)")
	flags.StringVar(&cfg.InviteSalt, "invite-salt", "", "Invite token salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = stringEnv("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = stringEnv("BASE_URL", "http://localhost:"+strconv.Itoa(cfg.Port))
	}
	baseOrigin, err := originOf(cfg.BaseURL)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = []string{baseOrigin}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && !slices.Contains(cfg.AllowedOrigins, o) {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionKey == "" {
		cfg.SessionKey = os.Getenv("SESSION_KEY")
	}
	if cfg.SessionKey == "" {
		return Config{}, errors.New("SESSION_KEY required")
	}

	if cfg.InviteSalt == "" {
		cfg.InviteSalt = os.Getenv("INVITE_SALT")
	}
	if cfg.InviteSalt == "" {
		return Config{}, errors.New("INVITE_SALT required")
	}

	ttl, err := time.ParseDuration(stringEnv("SESSION_TTL", "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	cfg.LogLevel = stringEnv("LOG_LEVEL", "info")
	cfg.LogFormat = stringEnv("LOG_FORMAT", "text")

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = stringEnv("SMTP_FROM", cfg.SMTP.Username)
	if cfg.SMTP.Host != "" && cfg.SMTP.From == "" {
		return Config{}, errors.New("SMTP_FROM required when SMTP_HOST is set")
	}

	return cfg, nil
}

// originOf reduces a URL to scheme://host[:port]
func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// loadEnvFile loads key=value pairs without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
