package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/flowexport/internal/archive"
	"github.com/specialistvlad/flowexport/internal/config"
	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporter"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/provider"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *provider.Registry
	settings *config.Export
	getenv   func(string) string
}

// Option customizes an App.
type Option func(*App)

// WithModules replaces the platform modules registered by default.
func WithModules(modules ...provider.Module) Option {
	return func(a *App) { a.registry = newRegistry(modules) }
}

// WithGetenv replaces the environment lookup used for defaults.
func WithGetenv(getenv func(string) string) Option {
	return func(a *App) { a.getenv = getenv }
}

// NewApp is the constructor for the main application. It configures an
// isolated logger, loads the configuration file named by appConfig, if any,
// and merges the command-line settings over it.
func NewApp(outW io.Writer, appConfig *Config, loader *config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: newRegistry(nil),
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(a)
	}

	file := &config.Export{}
	if appConfig.ConfigPath != "" {
		if loader == nil {
			loader = config.NewLoader()
		}
		loaded, err := loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		file = loaded
	}
	a.settings = a.merge(appConfig, file)
	if err := validate(a.settings); err != nil {
		return nil, err
	}
	logger.Debug("Settings resolved.",
		"outputDir", a.settings.OutputDir,
		"platform", a.settings.Platform,
		"workers", a.settings.Workers,
		"platforms", len(a.registry.Names()),
	)
	return a, nil
}

// merge layers defaults, the environment, the configuration file and the
// command line, later layers winning.
func (a *App) merge(cli *Config, file *config.Export) *config.Export {
	s := *file
	if s.OutputDir == "" {
		s.OutputDir = a.getenv("OUTPUT_DIR")
	}
	if s.OutputDir == "" {
		s.OutputDir = exporter.DefaultOutputDir
	}

	if cli.OutputDir != "" {
		s.OutputDir = cli.OutputDir
	}
	if cli.Platform != "" {
		s.Platform = cli.Platform
	}
	if cli.Workers > 0 {
		s.Workers = cli.Workers
	}
	if cli.SnapshotPath != "" {
		s.Source = &config.Source{Type: config.SourceFile, Path: cli.SnapshotPath}
	}
	if cli.Archive && s.Archive == nil {
		s.Archive = &config.Archive{}
	}
	return &s
}

// validate rejects setting combinations that can only fail after files have
// been written.
func validate(s *config.Export) error {
	if s.Publish != nil && s.Archive == nil {
		return exporterr.Errorf(exporterr.Config, "publish", "publishing requires an archive block")
	}
	if ar := s.Archive; ar != nil {
		opts := archive.Options{Path: ar.Path}
		if err := archive.CheckDest(s.OutputDir, archive.Dest(s.OutputDir, opts)); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the resolved run settings. This is primarily for testing.
func (a *App) Settings() *config.Export {
	return a.settings
}

// Registry returns the application's platform registry.
func (a *App) Registry() *provider.Registry {
	return a.registry
}
