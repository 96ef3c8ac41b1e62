package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fanki/internal/fileutil"
	"fanki/internal/logging"
)

// CommandRunner executes an external command. Tests substitute a fake that
// writes the expected output file.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Workspace is a deck's private directory for converted assets:
// <temp>/<namespace>.<alias>.
type Workspace struct {
	TempDir   string
	Namespace string
	Alias     string
}

// Dir returns the workspace directory.
func (w Workspace) Dir() string {
	return filepath.Join(w.TempDir, w.Namespace+"."+w.Alias)
}

// Path returns the deterministic destination for source once converted to kind.
func (w Workspace) Path(source string, kind Kind) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.Dir(), stem+kind.CanonicalExt())
}

// Options configures a Transcoder.
type Options struct {
	FFmpegBinary string
	Timeout      time.Duration // zero means no per-asset timeout
	ImageQuality int
	VideoCRF     int
	Runner       CommandRunner
	Logger       *slog.Logger
}

// Transcoder converts assets into the workspace.
type Transcoder struct {
	workspace    Workspace
	ffmpeg       string
	timeout      time.Duration
	imageQuality int
	videoCRF     int
	run          CommandRunner
	logger       *slog.Logger
}

// NewTranscoder constructs a Transcoder writing into ws.
func NewTranscoder(ws Workspace, opts Options) *Transcoder {
	ffmpeg := strings.TrimSpace(opts.FFmpegBinary)
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	run := opts.Runner
	if run == nil {
		run = defaultCommandRunner
	}
	quality := opts.ImageQuality
	if quality <= 0 {
		quality = 80
	}
	return &Transcoder{
		workspace:    ws,
		ffmpeg:       ffmpeg,
		timeout:      opts.Timeout,
		imageQuality: quality,
		videoCRF:     opts.VideoCRF,
		run:          run,
		logger:       logging.NewComponentLogger(opts.Logger, "transcoder"),
	}
}

// Workspace returns the directory layout the transcoder writes into.
func (t *Transcoder) Workspace() Workspace {
	return t.workspace
}

// Convert writes asset into the workspace in its canonical format and
// returns the destination path. A file already at the destination is
// replaced. Sources already in canonical format are copied byte for byte.
func (t *Transcoder) Convert(ctx context.Context, asset Asset) (string, error) {
	if asset.Kind == KindNone {
		return "", fmt.Errorf("convert %s: unsupported media kind", asset.Ref)
	}
	dest := t.workspace.Path(asset.Path, asset.Kind)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("convert %s: create workspace: %w", asset.Ref, err)
	}
	if err := fileutil.RemoveIfExists(dest); err != nil {
		return "", fmt.Errorf("convert %s: remove stale output: %w", asset.Ref, err)
	}

	if strings.EqualFold(filepath.Ext(asset.Path), asset.Kind.CanonicalExt()) {
		if err := fileutil.CopyFile(asset.Path, dest); err != nil {
			return "", fmt.Errorf("convert %s: copy: %w", asset.Ref, err)
		}
		t.logger.Debug("asset copied",
			logging.String(logging.FieldEventType, "asset_copied"),
			logging.String("source", asset.Ref),
			logging.String("output", dest),
		)
		return dest, nil
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := t.run(runCtx, t.ffmpeg, t.args(asset, dest)...); err != nil {
		_ = fileutil.RemoveIfExists(dest)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("convert %s: timed out after %s: %w", asset.Ref, t.timeout, err)
		}
		return "", fmt.Errorf("convert %s: %w", asset.Ref, err)
	}
	if !fileutil.IsRegularFile(dest) {
		return "", fmt.Errorf("convert %s: ffmpeg produced no output at %s", asset.Ref, dest)
	}

	t.logger.Debug("asset converted",
		logging.String(logging.FieldEventType, "asset_converted"),
		logging.String("source", asset.Ref),
		logging.String("kind", asset.Kind.String()),
		logging.String("output", dest),
		logging.Duration("elapsed", time.Since(start)),
	)
	return dest, nil
}

func (t *Transcoder) args(asset Asset, dest string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin", "-y", "-i", asset.Path}
	switch asset.Kind {
	case KindImage:
		args = append(args,
			"-frames:v", "1",
			"-c:v", "libwebp",
			"-quality", strconv.Itoa(t.imageQuality),
		)
	case KindAudio:
		args = append(args,
			"-vn",
			"-map_metadata", "-1",
			"-c:a", "libvorbis",
			"-q:a", "4",
		)
	case KindVideo:
		args = append(args,
			"-c:v", "libx264",
			"-crf", strconv.Itoa(t.videoCRF),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-movflags", "+faststart",
		)
	}
	return append(args, dest)
}
