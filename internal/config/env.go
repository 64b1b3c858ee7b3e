package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadEnv loads the file named by JOBFEED_ENV_FILE (default .env) into the
// process environment. Variables already set win. A missing default file
// is not an error; a missing explicitly named one is.
func LoadEnv() error {
	name := os.Getenv("JOBFEED_ENV_FILE")
	explicit := name != ""
	if !explicit {
		name = defaultEnvFile
	}
	err := godotenv.Load(name)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading %s: %w", name, err)
}

// intEnv gets an environment variable as a positive integer with a fallback
func intEnv(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// secondsEnv gets an environment variable holding whole seconds
func secondsEnv(key string, fallback time.Duration) time.Duration {
	return time.Duration(intEnv(key, int(fallback/time.Second))) * time.Second
}
