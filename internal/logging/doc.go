// Package logging builds the slog loggers used across srtforge.
//
// Two output formats exist: a console handler that renders
// "timestamp LEVEL component: message key=value" lines, and standard JSON.
// Loggers carry a component attribute so batch, transcriber, and CLI output
// stay distinguishable in a shared log file.
package logging
