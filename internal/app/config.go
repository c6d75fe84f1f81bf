package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	InputPath  string // a reasoning document, or a directory of them
	ConfigPath string // optional HCL run-configuration file
	OutputDir  string // overrides the configured output directory when set

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
