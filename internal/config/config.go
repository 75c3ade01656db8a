package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type OAuthProvider struct {
	Key         string
	Secret      string
	CallbackURL string
}

func (p OAuthProvider) Enabled() bool {
	return p.Key != "" && p.Secret != ""
}

type Config struct {
	Port            int
	DBPath          string
	MaxTeams        int
	MatchInterval   time.Duration
	SessionLifetime time.Duration
	CORSOrigins     []string
	AdminEmails     []string

	Discord OAuthProvider
	Google  OAuthProvider
}

// Load reads the environment, a .env file in the working directory is optional
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:      envOr("DB_PATH", "op_tournament.db"),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:5173")),
		AdminEmails: splitList(strings.ToLower(os.Getenv("ADMIN_EMAILS"))),
		Discord: OAuthProvider{
			Key:         os.Getenv("DISCORD_KEY"),
			Secret:      os.Getenv("DISCORD_SECRET"),
			CallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
		},
		Google: OAuthProvider{
			Key:         os.Getenv("GOOGLE_KEY"),
			Secret:      os.Getenv("GOOGLE_SECRET"),
			CallbackURL: os.Getenv("GOOGLE_CALLBACK_URL"),
		},
	}

	var err error
	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.MaxTeams, err = intEnv("MAX_TEAMS", 30); err != nil {
		return nil, err
	}
	if cfg.MaxTeams < 2 {
		return nil, fmt.Errorf("MAX_TEAMS must be at least 2, got %d", cfg.MaxTeams)
	}

	if cfg.MatchInterval, err = durationEnv("MATCH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionLifetime, err = durationEnv("SESSION_LIFETIME", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
