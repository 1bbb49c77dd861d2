package config

import (
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env then .env.local from the working directory.
// Variables already present in the process environment are kept.
func loadEnvFiles() error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.ConfigError("load " + f).WithCause(err).Build()
		}
	}
	return nil
}
