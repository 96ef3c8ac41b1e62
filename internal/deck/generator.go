package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"fanki/internal/config"
	"fanki/internal/logging"
	"fanki/internal/media"
	"fanki/internal/speech"
	"fanki/internal/textutil"
)

// Result summarizes a finished build.
type Result struct {
	Deck        string
	PackagePath string
	Notes       int
	Media       int
	Elapsed     time.Duration
}

// Generator builds packages from loaded definitions.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
	runner media.CommandRunner
	synth  speech.Synthesizer
	now    func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithCommandRunner replaces the ffmpeg invocation.
func WithCommandRunner(run media.CommandRunner) Option {
	return func(g *Generator) { g.runner = run }
}

// WithSynthesizer replaces the Polly synthesizer built from config.
func WithSynthesizer(s speech.Synthesizer) Option {
	return func(g *Generator) { g.synth = s }
}

// WithClock sets the time source used for package ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator returns a Generator for cfg.
func NewGenerator(cfg *config.Config, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "generator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build resolves every card of def and writes its package. A second build
// of the same deck running concurrently fails with ErrBuildInProgress.
func (g *Generator) Build(ctx context.Context, def *Definition) (Result, error) {
	start := g.now()
	result := Result{Deck: def.Key()}
	logger := g.logger.With(logging.String(logging.FieldDeck, def.Key()))

	for _, dir := range []string{g.cfg.Paths.TempDir, g.cfg.Paths.PackagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, &ConfigError{Path: dir, Err: err}
		}
	}

	lock := flock.New(lockPath(g.cfg.Paths.TempDir, def))
	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire deck lock: %w", err)
	}
	if !locked {
		return result, fmt.Errorf("%s: %w", def.Key(), ErrBuildInProgress)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release deck lock", logging.Error(err))
		}
	}()

	variant, err := LookupVariant(def.Variant)
	if err != nil {
		return result, &ConfigError{Path: def.Dir, Field: "variant", Err: err}
	}
	cards, err := variant.ImportCards(def.Cards)
	if err != nil {
		return result, &ConfigError{Path: def.Dir, Field: "cards", Err: err}
	}

	transcoder := media.NewTranscoder(media.Workspace{
		TempDir:   g.cfg.Paths.TempDir,
		Namespace: def.Namespace,
		Alias:     def.Alias,
	}, media.Options{
		FFmpegBinary: g.cfg.FFmpegBinary(),
		Timeout:      time.Duration(g.cfg.Media.TimeoutSeconds) * time.Second,
		ImageQuality: g.cfg.Media.ImageQuality,
		VideoCRF:     g.cfg.Media.VideoCRF,
		Runner:       g.runner,
		Logger:       g.logger,
	})

	clips, err := g.clipCache(ctx, def)
	if err != nil {
		return result, err
	}

	set := &MediaSet{}
	parser := NewParser(def.Dir, transcoder, clips, set, logger)
	resolved := make([]Card, 0, len(cards))
	for i, card := range cards {
		out, err := parser.Resolve(ctx, card)
		if err != nil {
			return result, fmt.Errorf("card %d: %w", i, err)
		}
		resolved = append(resolved, out)
	}

	assembler := &Assembler{PackagesDir: g.cfg.Paths.PackagesDir, Now: g.now, Logger: logger}
	path, err := assembler.Assemble(ctx, def, variant.Template(), resolved, set)
	if err != nil {
		return result, fmt.Errorf("assemble %s: %w", def.Key(), err)
	}

	result.PackagePath = path
	result.Notes = len(resolved)
	result.Media = set.Len()
	result.Elapsed = g.now().Sub(start)
	logger.Info("deck built",
		logging.String(logging.FieldEventType, "deck_built"),
		logging.String("package", path),
		logging.Int("notes", result.Notes),
		logging.Int("media", result.Media),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func lockPath(tempDir string, def *Definition) string {
	name := textutil.SanitizeToken(def.Namespace) + "." + textutil.SanitizeToken(def.Alias) + ".lock"
	return filepath.Join(tempDir, name)
}

// clipCache returns the speech clip cache for def. With speech disabled, or
// when Polly cannot be configured, existing clips are still reused but no
// new ones are synthesized.
func (g *Generator) clipCache(ctx context.Context, def *Definition) (*speech.Cache, error) {
	dir := g.cfg.Speech.CacheDir
	if dir == "" {
		dir = def.AssetsDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create speech cache: %w", err)
	}

	var synth speech.Synthesizer
	if g.cfg.Speech.Enabled {
		synth = g.synth
	}
	if synth == nil && g.cfg.Speech.Enabled {
		built, err := g.pollySynthesizer(ctx)
		if err != nil {
			logging.WarnWithContext(g.logger, "speech synthesis unavailable", "speech_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check speech settings and AWS credentials"),
				logging.String(logging.FieldImpact, "cards use cached speech clips only"),
			)
		} else {
			synth = built
		}
	}
	return speech.NewCache(dir, synth, g.logger), nil
}

func (g *Generator) pollySynthesizer(ctx context.Context) (speech.Synthesizer, error) {
	client, err := speech.NewPollyClient(ctx, g.cfg.Speech)
	if err != nil {
		return nil, err
	}
	synth, err := speech.NewPollySynthesizer(client, g.cfg.Speech)
	if err != nil {
		return nil, err
	}
	return synth, nil
}

// IsConfigError reports whether err is a definition problem rather than a
// failure during the build itself.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition)
}
