package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port         string
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieSecure bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
	}

	dbPath, err := defaultDBPath()
	if err != nil {
		return nil, err
	}
	cfg.DBPath = getEnv("DB_PATH", dbPath)

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// defaultDBPath places the database file in the per-user application data
// directory, creating it on first run.
func defaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "dinedash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "pos.db"), nil
}

// loadKey reads a base64 key from the environment, falling back to a random
// key. Random keys invalidate sessions on restart, which is acceptable for a
// single-terminal install.
func loadKey(name string) []byte {
	encoded := os.Getenv(name)
	if encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil && len(decoded) >= 32 {
			return decoded
		}
		slog.Warn("Key is invalid or too short (min 32 bytes), generating a random one", "key", name)
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		os.Exit(1)
	}
	return b
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
