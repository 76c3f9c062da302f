package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	BaseURL      string
	AccountKey   string
	AccountKeys  []string
	FetchTimeout time.Duration
	MaxPayload   int64
	Workers      int

	RequestTimeout time.Duration
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return FromEnv()
}

func FromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("var", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		BaseURL:      env("TRUSTPILOT_BASE_URL", "http://s.trustpilot.com"),
		AccountKey:   env("TRUSTPILOT_ACCOUNT_KEY", ""),
		AccountKeys:  splitList(os.Getenv("TRUSTPILOT_ACCOUNT_KEYS")),
		FetchTimeout: time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
		MaxPayload:   int64(atoi("MAX_PAYLOAD_BYTES", 32<<20)),
		Workers:      atoi("SUMMARY_WORKERS", 4),

		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.AccountKey == "" && len(c.AccountKeys) > 0 {
		c.AccountKey = c.AccountKeys[0]
	}
	if c.AccountKey == "" {
		log.Warn().Msg("TRUSTPILOT_ACCOUNT_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
