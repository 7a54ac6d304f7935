// Package exporter compiles a flow.Project into an agent export directory.
//
// Every privileged message (a message reached through at least one
// intent-tagged edge) is paired with each intent that leads to it. A pairing
// produces one intent definition file and, when the intent has example
// phrases, a companion usersays file. Message entries are processed by a
// bounded worker pool; the first failure cancels the run.
package exporter
