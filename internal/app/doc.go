// Package app wires a complete export run: it merges command-line settings
// with the configuration file, loads the project snapshot, runs the exporter
// and hands the result to the archive and publish steps. It is decoupled from
// any specific entrypoint like a CLI.
package app
