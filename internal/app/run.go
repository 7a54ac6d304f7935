package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specialistvlad/flowexport/internal/archive"
	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporter"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/publish"
	"github.com/specialistvlad/flowexport/internal/templates"
)

// Result describes the outcome of a successful run.
type Result struct {
	Report  *exporter.Report
	Archive string
	URL     string
}

// Run executes one export: load, compile, then archive and publish when
// configured. A failure is written to the configured error report as well as
// returned.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	res, err := a.run(ctx)
	if err != nil {
		a.logger.Error("Export run failed.", "kind", exporterr.KindOf(err).String(), "error", err)
		a.writeErrorReport(err)
		return nil, err
	}
	a.logger.Debug("App.Run method finished.")
	return res, nil
}

func (a *App) run(ctx context.Context) (*Result, error) {
	src, err := a.newSource()
	if err != nil {
		return nil, err
	}
	a.logger.Info("Fetching project data.")
	project, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	opts := []exporter.Option{
		exporter.WithOutputDir(a.settings.OutputDir),
		exporter.WithWorkers(a.settings.Workers),
		exporter.WithPlatform(a.settings.Platform),
		exporter.WithRegistry(a.registry),
	}
	if a.settings.TemplatesDir != "" {
		opts = append(opts, exporter.WithTemplates(templates.Dir(a.settings.TemplatesDir)))
	}

	a.logger.Info("Writing files.")
	report, err := exporter.New(opts...).Run(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	res := &Result{Report: report}

	if ar := a.settings.Archive; ar != nil {
		path, err := archive.Zip(ctx, report.OutputDir, archive.Options{Path: ar.Path, KeepDir: ar.KeepDir, Level: ar.Level})
		if err != nil {
			return nil, fmt.Errorf("archive failed: %w", err)
		}
		res.Archive = path
	}

	if a.settings.Publish != nil {
		url, err := a.publish(ctx, res.Archive)
		if err != nil {
			return nil, fmt.Errorf("publish failed: %w", err)
		}
		res.URL = url
	}

	a.logger.Info("Done.", "outputDir", report.OutputDir, "archive", res.Archive, "url", res.URL)
	return res, nil
}

func (a *App) publish(ctx context.Context, path string) (string, error) {
	pub := a.settings.Publish
	retries := pub.MaxRetries
	if retries < 0 {
		retries = publish.DefaultMaxRetries
	}
	p, err := publish.New(ctx, publish.Options{
		Bucket:          pub.Bucket,
		Region:          pub.Region,
		Prefix:          pub.Prefix,
		Endpoint:        pub.Endpoint,
		AccessKeyID:     pub.AccessKeyID,
		SecretAccessKey: pub.SecretAccessKey,
		MaxRetries:      retries,
		Backoff:         pub.Backoff,
	})
	if err != nil {
		return "", err
	}
	return p.Publish(ctx, path)
}

// writeErrorReport records a failed run as {"kind": ..., "message": ...}.
func (a *App) writeErrorReport(runErr error) {
	path := a.settings.ErrorReport
	if path == "" {
		return
	}
	data, err := json.MarshalIndent(map[string]string{
		"kind":    exporterr.KindOf(runErr).String(),
		"message": runErr.Error(),
	}, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		a.logger.Warn("Could not write error report.", "path", path, "error", err)
	}
}
