package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RequiredEncoders lists the ffmpeg encoders needed for the canonical formats:
// webp images, ogg/vorbis audio, and H.264 mp4 video.
var RequiredEncoders = []string{"libwebp", "libvorbis", "libx264"}

// OutputRunner runs a command and returns its standard output.
type OutputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultOutputRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ResolveFFmpegPath returns the absolute path of the configured ffmpeg binary,
// or the configured value unchanged when it cannot be resolved.
func ResolveFFmpegPath(configured string) string {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = "ffmpeg"
	}
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved
	}
	return name
}

// CheckFFmpegEncoders reports whether the ffmpeg binary was built with every
// encoder in RequiredEncoders. A nil runner executes the binary directly.
func CheckFFmpegEncoders(ctx context.Context, binary string, run OutputRunner) Status {
	status := Status{
		Name:        "FFmpeg encoders",
		Command:     binary,
		Description: "webp, vorbis, and x264 encoders for asset conversion",
	}
	if run == nil {
		run = defaultOutputRunner
	}
	out, err := run(ctx, binary, "-hide_banner", "-encoders")
	if err != nil {
		status.Detail = fmt.Sprintf("list encoders: %v", err)
		return status
	}

	available := parseEncoderNames(out)
	var missing []string
	for _, name := range RequiredEncoders {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		status.Detail = "missing encoders: " + strings.Join(missing, ", ")
		return status
	}
	status.Available = true
	return status
}

// parseEncoderNames extracts encoder names from `ffmpeg -encoders` output,
// whose rows look like " V....D libx264   libx264 H.264 ...".
func parseEncoderNames(out []byte) map[string]struct{} {
	names := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		names[fields[1]] = struct{}{}
	}
	return names
}
