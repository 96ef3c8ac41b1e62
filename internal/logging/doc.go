// Package logging assembles structured slog loggers used across fanki.
//
// It owns the console and JSON handlers, maps configured level and output
// paths onto them, and exposes attribute helpers plus standard field keys so
// every component tags its lines the same way. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
