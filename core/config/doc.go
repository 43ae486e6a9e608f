// Package config provides type-safe environment variable loading for the
// server's configuration structs.
//
// Configuration types declare their environment bindings with `env` struct
// tags and are parsed by the caarlos0/env library. A .env file is loaded
// automatically on first use.
//
//	type ServeConfig struct {
//		Addr  string   `env:"WEBSERVE_ADDR" envDefault:"localhost:33411"`
//		Debug []string `env:"WEBSERVE_DEBUG" envSeparator:","`
//	}
//
//	var cfg ServeConfig
//	config.MustLoad(&cfg)
package config
