package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fanki/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Speech synthesis is disabled so tests never reach AWS.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RootDir = filepath.Join(base, "decks")
	cfgVal.Paths.PackagesDir = filepath.Join(base, "packages")
	cfgVal.Paths.TempDir = filepath.Join(base, "temp")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Speech.Enabled = false
	cfgVal.Speech.AccessKeyID = ""
	cfgVal.Speech.SecretAccessKey = ""

	for _, dir := range []string{cfgVal.Paths.RootDir, cfgVal.Paths.PackagesDir, cfgVal.Paths.TempDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSpeechCache points the speech clip cache at a directory under the
// test base.
func WithSpeechCache() ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "speech")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir speech cache: %v", err)
		}
		b.cfg.Speech.CacheDir = dir
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		stubBinaries(b, []byte("#!/bin/sh\nexit 0\n"), names)
	}
}

// fakeFFmpeg lists the encoders a build needs and otherwise writes a few
// bytes to its last argument, the output path.
const fakeFFmpeg = `#!/bin/sh
for arg in "$@"; do
	if [ "$arg" = "-encoders" ]; then
		printf ' V....D libwebp   WebP\n A....D libvorbis Vorbis\n V....D libx264   H.264\n'
		exit 0
	fi
	last="$arg"
done
printf 'converted' > "$last"
`

// WithFakeFFmpeg installs an ffmpeg on PATH that reports every required
// encoder and "converts" by writing a small file to the output path.
func WithFakeFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		stubBinaries(b, []byte(fakeFFmpeg), []string{"ffmpeg"})
		b.cfg.Media.FFmpegBinary = "ffmpeg"
	}
}

func stubBinaries(b *configBuilder, script []byte, names []string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	for _, name := range names {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.PackagesDir)
}
