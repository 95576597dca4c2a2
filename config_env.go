package authclient

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ConfigFromEnv builds a Config from environment variables, loading a .env
// file first when one exists. Unset variables keep their defaults.
//
//	CLASSBRIDGE_BASE_URL         API origin (required to Build)
//	CLASSBRIDGE_REFRESH_PATH     refresh endpoint path
//	CLASSBRIDGE_REFRESH_TIMEOUT  refresh wire-call timeout (Go duration)
//	CLASSBRIDGE_EARLY_WINDOW     proactive refresh window (Go duration)
//	CLASSBRIDGE_REQUEST_TIMEOUT  per-request timeout (Go duration)
//	CLASSBRIDGE_USER_AGENT       User-Agent header value
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	cfg.BaseURL = os.Getenv("CLASSBRIDGE_BASE_URL")

	if v := os.Getenv("CLASSBRIDGE_REFRESH_PATH"); v != "" {
		cfg.Endpoints.RefreshPath = v
	}
	if v := os.Getenv("CLASSBRIDGE_USER_AGENT"); v != "" {
		cfg.HTTP.UserAgent = v
	}

	for _, d := range []struct {
		env string
		dst *time.Duration
	}{
		{"CLASSBRIDGE_REFRESH_TIMEOUT", &cfg.Refresh.Timeout},
		{"CLASSBRIDGE_EARLY_WINDOW", &cfg.Refresh.EarlyWindow},
		{"CLASSBRIDGE_REQUEST_TIMEOUT", &cfg.HTTP.RequestTimeout},
	} {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
