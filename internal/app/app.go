package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/akarpov/reasonpath/internal/config"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	runConf config.Config
}

// New is the constructor for the main application. A missing or invalid
// run-configuration file is a fatal startup error and panics; the
// entrypoint recovers and turns it into a clean exit.
func New(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	runConf := config.Default()
	if appConfig.ConfigPath != "" {
		loaded, err := config.Load(appConfig.ConfigPath)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		runConf = loaded
		logger.Debug("Run configuration loaded.", "path", appConfig.ConfigPath)
	}
	if appConfig.OutputDir != "" {
		runConf.Output.Dir = appConfig.OutputDir
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		runConf: runConf,
	}
}
