package preflight

import (
	"context"

	"fanki/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string

	// Optional failures are reported but never stop a build.
	Optional bool
}

// RunAll executes all applicable directory and credential checks for the
// given config. Binary checks are reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Deck root", cfg.Paths.RootDir),
		CheckDirectoryAccess("Packages directory", cfg.Paths.PackagesDir),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
	}

	if cfg.Speech.CacheDir != "" {
		results = append(results, CheckDirectoryAccess("Speech cache", cfg.Speech.CacheDir))
	}

	if cfg.Speech.Enabled {
		results = append(results, CheckSpeech(ctx, cfg.Speech))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Blocking returns the failed results that are not optional.
func Blocking(results []Result) []Result {
	var blocking []Result
	for _, r := range Failed(results) {
		if !r.Optional {
			blocking = append(blocking, r)
		}
	}
	return blocking
}
