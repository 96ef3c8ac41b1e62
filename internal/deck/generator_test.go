package deck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"fanki/internal/config"
	"fanki/internal/speech"
)

func testConfig(t *testing.T, fx fixture) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RootDir = fx.root
	cfg.Paths.PackagesDir = filepath.Join(t.TempDir(), "packages")
	cfg.Paths.TempDir = fx.temp
	cfg.Paths.LogDir = t.TempDir()
	cfg.Speech.Enabled = true
	cfg.Speech.CacheDir = ""
	return &cfg
}

const animalsDefinition = `{
	"id": 1700000000,
	"name": "Animaux",
	"cards": [
		{"front": "cat", "front_image": "assets/cat.png", "back": "le <b>chat</b>", "back_tts": true, "ignored": "x"},
		{"front": "dog", "back": "le chien", "back_audio": "assets/chien.mp3", "back_tts": true},
		{"front": "bird", "back": "l'oiseau", "back_sentence": "L'oiseau chante.", "back_sentence_tts": true}
	]
}`

func TestGeneratorBuild(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	fx.writeAsset(t, "cat.png", "png")
	fx.writeAsset(t, "chien.mp3", "mp3")
	if err := os.WriteFile(filepath.Join(fx.dir, "package.apkg"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	def, err := LoadDefinition(fx.writeDefinition(t, animalsDefinition))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	ffmpeg := &fakeFFmpeg{}
	synth := &fakeSynth{}
	gen := NewGenerator(cfg, nil, WithCommandRunner(ffmpeg.run), WithSynthesizer(synth), WithClock(fixedClock))

	result, err := gen.Build(context.Background(), def)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PackagePath != ArtifactPath(cfg.Paths.PackagesDir, "fr", "animals") {
		t.Fatalf("package path = %s", result.PackagePath)
	}
	if result.Notes != 3 || result.Media != 4 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := strings.Join(synth.texts, "|"); got != "le chat|L'oiseau chante." {
		t.Fatalf("synthesized %q", got)
	}
	if _, err := os.Stat(filepath.Join(fx.dir, "package.apkg")); !os.IsNotExist(err) {
		t.Fatal("stale package in deck dir should be removed")
	}
	if _, err := os.Stat(filepath.Join(fx.dir, "assets", speech.FileName("le chat"))); err != nil {
		t.Fatalf("speech clip should be cached in assets: %v", err)
	}

	notes := readNotes(t, result.PackagePath)
	if notes[0][1] != `<img src="cat.webp">` || !strings.HasPrefix(notes[0][5], "[sound:tts_") {
		t.Fatalf("unexpected first note %q", notes[0])
	}
	if notes[1][5] != "[sound:chien.ogg]" {
		t.Fatalf("explicit audio should win, got %q", notes[1][5])
	}
	if notes[2][7] == "" || notes[2][5] != "" {
		t.Fatalf("unexpected third note %q", notes[2])
	}

	// Rebuilding reuses the cached clips and yields the same fields.
	again, err := gen.Build(context.Background(), def)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if len(synth.texts) != 2 {
		t.Fatalf("second build should hit the speech cache, synthesized %d times", len(synth.texts))
	}
	renotes := readNotes(t, again.PackagePath)
	for i := range notes {
		if strings.Join(notes[i], "|") != strings.Join(renotes[i], "|") {
			t.Fatalf("note %d changed between builds:\n%q\n%q", i, notes[i], renotes[i])
		}
	}
	entries, _ := os.ReadDir(cfg.Paths.PackagesDir)
	if len(entries) != 1 {
		t.Fatalf("expected a single package after rebuild, found %d", len(entries))
	}
}

func TestGeneratorSpeechDisabled(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [{"front": "a", "back": "b", "back_tts": true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	cfg.Speech.Enabled = false
	synth := &fakeSynth{}

	result, err := NewGenerator(cfg, nil, WithSynthesizer(synth), WithClock(fixedClock)).Build(context.Background(), def)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(synth.texts) != 0 || result.Media != 0 {
		t.Fatalf("speech disabled should not synthesize: %v, media=%d", synth.texts, result.Media)
	}
}

func TestGeneratorSpeechFailureStillBuilds(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [{"front": "a", "back": "b", "back_tts": true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	synth := &fakeSynth{err: errUnreachable}

	result, err := NewGenerator(cfg, nil, WithSynthesizer(synth), WithClock(fixedClock)).Build(context.Background(), def)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	notes := readNotes(t, result.PackagePath)
	if notes[0][5] != "" {
		t.Fatalf("audio should stay empty after a failed synthesis, got %q", notes[0][5])
	}
}

func TestGeneratorConversionFailureWritesNothing(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	fx.writeAsset(t, "cat.png", "png")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [{"front": "assets/cat.png"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	cfg.Speech.Enabled = false
	ffmpeg := &fakeFFmpeg{err: errors.New("decode failed")}

	_, err = NewGenerator(cfg, nil, WithCommandRunner(ffmpeg.run)).Build(context.Background(), def)
	if err == nil {
		t.Fatal("expected build error")
	}
	if _, statErr := os.Stat(ArtifactPath(cfg.Paths.PackagesDir, "fr", "animals")); !os.IsNotExist(statErr) {
		t.Fatal("no package should be written after a conversion failure")
	}
}

func TestGeneratorRejectsConcurrentBuild(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [{"front": "a"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)

	held := flock.New(filepath.Join(cfg.Paths.TempDir, "fr.animals.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: %v", err)
	}
	defer held.Unlock()

	_, err = NewGenerator(cfg, nil).Build(context.Background(), def)
	if !errors.Is(err, ErrBuildInProgress) {
		t.Fatalf("expected ErrBuildInProgress, got %v", err)
	}
}

func TestGeneratorBuildEmbedsVideo(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	fx.writeAsset(t, "chat.mov", "mov")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [{"front": "cat", "back": "chat", "back_video": "assets/chat.mov"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	cfg.Speech.Enabled = false
	ffmpeg := &fakeFFmpeg{}
	var calls [][]string
	run := func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, args)
		return ffmpeg.run(ctx, name, args...)
	}

	result, err := NewGenerator(cfg, nil, WithCommandRunner(run), WithClock(fixedClock)).Build(context.Background(), def)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Media != 1 || len(calls) != 1 {
		t.Fatalf("expected one converted video, media=%d calls=%d", result.Media, len(calls))
	}
	if !strings.Contains(strings.Join(calls[0], " "), "-c:v libx264") {
		t.Fatalf("video should be encoded with libx264: %v", calls[0])
	}
	notes := readNotes(t, result.PackagePath)
	if notes[0][9] != "chat.mp4" {
		t.Fatalf("back_video = %q", notes[0][9])
	}
}

func TestGeneratorCollidingAssetsKeepPreviousPackage(t *testing.T) {
	fx := newFixture(t, "fr", "animals")
	fx.writeAsset(t, "cat.png", "png")
	fx.writeAsset(t, "cat.jpg", "jpg")
	def, err := LoadDefinition(fx.writeDefinition(t, `{"id": 1, "name": "n", "cards": [
		{"front": "one", "front_image": "assets/cat.png"},
		{"front": "two", "front_image": "assets/cat.jpg"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, fx)
	cfg.Speech.Enabled = false
	previous := ArtifactPath(cfg.Paths.PackagesDir, "fr", "animals")
	if err := os.MkdirAll(cfg.Paths.PackagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(previous, []byte("previous build"), 0o644); err != nil {
		t.Fatal(err)
	}

	ffmpeg := &fakeFFmpeg{}
	_, err = NewGenerator(cfg, nil, WithCommandRunner(ffmpeg.run)).Build(context.Background(), def)
	if !errors.Is(err, ErrMediaCollision) {
		t.Fatalf("expected media collision, got %v", err)
	}
	if data, err := os.ReadFile(previous); err != nil || string(data) != "previous build" {
		t.Fatalf("previous package should be untouched: %q %v", data, err)
	}
}
