package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowexport/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowexport", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowexport - Compiles a conversation flow into an NLU agent export.

Usage:
  flowexport [options] [OUTPUT_DIR]

Arguments:
  OUTPUT_DIR
    Directory the export is written to. Defaults to $OUTPUT_DIR or "output".

Without -config or -snapshot the project is fetched from the project API
using BOTMOCK_TOKEN, BOTMOCK_TEAM_ID, BOTMOCK_PROJECT_ID and BOTMOCK_BOARD_ID.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	cFlag := flagSet.String("c", "", "Path to an HCL configuration file (shorthand).")
	snapshotFlag := flagSet.String("snapshot", "", "Path to a project snapshot (.json, .yaml or .yml).")
	outputFlag := flagSet.String("output", "", "Directory the export is written to.")
	platformFlag := flagSet.String("platform", "", "Target platform, overriding the project's platform.")
	workersFlag := flagSet.Int("workers", 0, "Number of messages compiled concurrently. 0 uses the number of CPUs.")
	archiveFlag := flagSet.Bool("archive", false, "Zip the export directory and remove it afterwards.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}

	outputDir := *outputFlag
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "too many arguments: expected at most one output directory"}
	}
	if outputDir == "" && flagSet.NArg() == 1 {
		outputDir = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:   configPath,
		SnapshotPath: *snapshotFlag,
		OutputDir:    outputDir,
		Platform:     *platformFlag,
		Workers:      *workersFlag,
		Archive:      *archiveFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
