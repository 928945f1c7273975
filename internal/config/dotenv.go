package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"mealcall-app-go/pkg/logger"
)

const dotenvFilename = ".env"

// loadDotEnv walks up from the working directory looking for a .env
// file, so the binary behaves the same from the repo root and from
// cmd/. A missing file is not an error.
func loadDotEnv(log logger.Logger) error {
	path, err := findDotEnv(dotenvFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(path); err != nil {
		return err
	}
	log.Info("dotenv: loaded", "path", path)
	return nil
}

func findDotEnv(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
