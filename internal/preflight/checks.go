package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"fanki/internal/config"
	"fanki/internal/deps"
	"fanki/internal/speech"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries a build shells out to.
// Both the build command and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, run deps.OutputRunner) []deps.Status {
	ffmpeg := deps.ResolveFFmpegPath(cfg.FFmpegBinary())
	results := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required for asset conversion",
		},
	})
	if results[0].Available {
		results = append(results, deps.CheckFFmpegEncoders(ctx, ffmpeg, run))
	}
	return results
}

// CheckSpeech verifies that Polly credentials resolve for the configured
// profile or static keys. It does not call the service. A failure is
// optional: builds fall back to cached clips.
func CheckSpeech(ctx context.Context, cfg config.Speech) Result {
	const name = "Speech synthesis"

	if !cfg.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled", Optional: true}
	}
	source, err := speech.CheckCredentials(ctx, cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("credentials unavailable (%v)", err), Optional: true}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s voices via %s", cfg.Language, source), Optional: true}
}
