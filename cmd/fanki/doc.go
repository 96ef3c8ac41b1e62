// Package main hosts the fanki CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, runs readiness checks,
// and hands deck builds to internal/deck. Package paths go to stdout and
// logs go to stderr so builds can be scripted.
package main
