package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RequestsPath    string // request script: hcl file or directory
	ManifestPath    string // service manifest: hcl file or directory
	ControllersPath string // directory of controller manifests

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Concurrency     int
}

// DefaultConcurrency is used when Config.Concurrency is not set.
const DefaultConcurrency = 10

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RequestsPath == "" {
		return nil, errors.New("RequestsPath is a required configuration field and cannot be empty")
	}
	if cfg.Concurrency < 0 {
		return nil, errors.New("Concurrency must not be negative")
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &cfg, nil
}
