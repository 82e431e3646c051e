package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration, all sourced from the
// environment. There are no state files: everything the relay knows
// lives in memory and dies with the process.
type Config struct {
	Env       string
	Port      string
	Origins   []string // allowed CORS/WebSocket origins; ["*"] allows all
	RedisAddr string   // empty disables the cross-node bridge
}

// Load reads .env when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "4000"),
		Origins:   parseOrigins(os.Getenv("CLIENT_ORIGIN")),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}
}

// parseOrigins splits the comma-separated allowlist, trimming each
// entry. An unset list means allow-all.
func parseOrigins(v string) []string {
	if v == "" {
		return []string{"*"}
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
