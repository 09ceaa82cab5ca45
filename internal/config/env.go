package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var envFileNames = []string{".env", ".env.local"}

// loadEnvFiles loads .env/.env.local from dir. Existing process variables are not overwritten.
func loadEnvFiles(dir string) {
	for _, name := range envFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
	}
}
