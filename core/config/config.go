package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse is returned when environment variables cannot be parsed into the target struct.
var ErrParse = errors.New("config: failed to parse environment")

var loadDotEnv sync.Once

// Load populates cfg from environment variables using `env` struct tags.
// A .env file in the working directory is loaded once per process, if present;
// a missing .env file is not an error.
func Load(cfg any) error {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup where
// a misconfigured environment should stop the process immediately.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
