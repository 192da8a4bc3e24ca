package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("required setting is not set")

type Config struct {
	DatabaseURL        string
	ClerkSecretKey     string
	ClerkWebhookSecret string
	Port               string
	RedisURL           string
	MetricsUser        string
	MetricsPass        string
	FCMServiceAccount  string
	FCMCredentialsFile string
	ShareBaseURL       string
	LogLevel           string
	CanvasWidth        int
	CanvasHeight       int
	TrustedProxies     []netip.Prefix
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds the config from any key lookup. Only the database URL and
// the Clerk secret are required.
func FromLookup(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getenv("DATABASE_URL"),
		ClerkSecretKey:     getenv("CLERK_SECRET_KEY"),
		ClerkWebhookSecret: getenv("CLERK_WEBHOOK_SECRET"),
		Port:               withDefault(getenv("PORT"), "3333"),
		RedisURL:           getenv("REDIS_URL"),
		MetricsUser:        getenv("METRICS_USER"),
		MetricsPass:        getenv("METRICS_PASS"),
		FCMServiceAccount:  getenv("FCM_SERVICE_ACCOUNT_JSON"),
		FCMCredentialsFile: withDefault(getenv("FCM_CREDENTIALS_FILE"), "./serviceAccountKey.json"),
		ShareBaseURL:       withDefault(getenv("SHARE_BASE_URL"), "wardrobe://outfits"),
		LogLevel:           withDefault(getenv("LOG_LEVEL"), "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL: %w", ErrMissingSetting)
	}
	if cfg.ClerkSecretKey == "" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY: %w", ErrMissingSetting)
	}

	var err error
	if cfg.CanvasWidth, err = intSetting(getenv, "CANVAS_WIDTH"); err != nil {
		return nil, err
	}
	if cfg.CanvasHeight, err = intSetting(getenv, "CANVAS_HEIGHT"); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixList(getenv, "TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// intSetting returns 0 for an unset key so callers fall back to their own defaults.
func intSetting(getenv func(string) string, key string) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// prefixList parses a comma separated list of CIDR ranges or single addresses.
func prefixList(getenv func(string) string, key string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, raw := range strings.Split(getenv(key), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes, nil
}
