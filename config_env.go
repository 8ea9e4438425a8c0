package authcore

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/carelink/authcore/token"
)

// LoadEnv builds a Config from AUTHCORE_* environment variables on top of
// the defaults. A .env file in the working directory is applied first when
// present; a missing file is not an error.
//
// Durations accept either Go syntax ("15m") or the compact form
// <int><s|m|h|d> ("12h", "7d").
func LoadEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	cfg.Token.AccessSecret = os.Getenv("AUTHCORE_ACCESS_SECRET")
	cfg.Token.RefreshSecret = os.Getenv("AUTHCORE_REFRESH_SECRET")
	if v := os.Getenv("AUTHCORE_ISSUER"); v != "" {
		cfg.Token.Issuer = v
	}
	if v := os.Getenv("AUTHCORE_AUDIENCE"); v != "" {
		cfg.Token.Audience = v
	}

	var err error
	if cfg.Token.AccessTTL, err = envDuration("AUTHCORE_ACCESS_TTL", cfg.Token.AccessTTL); err != nil {
		return cfg, err
	}
	if cfg.Token.RefreshTTL, err = envDuration("AUTHCORE_REFRESH_TTL", cfg.Token.RefreshTTL); err != nil {
		return cfg, err
	}

	if cfg.Password.Cost, err = envInt("AUTHCORE_BCRYPT_COST", cfg.Password.Cost); err != nil {
		return cfg, err
	}
	if cfg.Password.HistoryLimit, err = envInt("AUTHCORE_PASSWORD_HISTORY", cfg.Password.HistoryLimit); err != nil {
		return cfg, err
	}

	if v := os.Getenv("AUTHCORE_MFA_ISSUER"); v != "" {
		cfg.MFA.Issuer = v
	}

	if v := os.Getenv("AUTHCORE_SESSION_PREFIX"); v != "" {
		cfg.Session.Prefix = v
	}
	if cfg.Session.MaxConcurrent, err = envInt("AUTHCORE_SESSION_CAP", cfg.Session.MaxConcurrent); err != nil {
		return cfg, err
	}

	if v := os.Getenv("AUTHCORE_STRICT"); v != "" {
		cfg.Security.StrictMode = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("AUTHCORE_AUDIT"); v != "" {
		cfg.Audit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("AUTHCORE_METRICS"); v != "" {
		cfg.Metrics.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("AUTHCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", name, err)
	}
	return n, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := token.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", name, err)
	}
	return d, nil
}
