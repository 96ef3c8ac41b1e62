package deck

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fanki/internal/media"
)

// fixture is an on-disk deck: <root>/<ns>/<alias>/{data.json,assets/}.
type fixture struct {
	root string
	dir  string
	temp string
}

func newFixture(t *testing.T, namespace, alias string) fixture {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, namespace, alias)
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	return fixture{root: root, dir: dir, temp: t.TempDir()}
}

func (f fixture) writeDefinition(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(f.dir, DefinitionFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (f fixture) writeAsset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, "assets", name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeFFmpeg writes "<codec>:<source basename>" to the destination.
type fakeFFmpeg struct {
	calls int
	err   error
}

func (f *fakeFFmpeg) run(ctx context.Context, name string, args ...string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	var src string
	for i, a := range args {
		if a == "-i" && i+1 < len(args) {
			src = args[i+1]
		}
	}
	return os.WriteFile(args[len(args)-1], []byte("converted:"+filepath.Base(src)), 0o644)
}

func (f fixture) transcoder(ffmpeg *fakeFFmpeg, namespace, alias string) *media.Transcoder {
	return media.NewTranscoder(media.Workspace{TempDir: f.temp, Namespace: namespace, Alias: alias},
		media.Options{Runner: ffmpeg.run})
}

// fakeClips writes a clip per request into dir, unless err is set.
type fakeClips struct {
	dir   string
	texts []string
	err   error
}

func (c *fakeClips) Resolve(ctx context.Context, text string) (string, error) {
	c.texts = append(c.texts, text)
	if c.err != nil {
		return "", c.err
	}
	path := filepath.Join(c.dir, "tts_"+strings.ReplaceAll(strings.ToLower(text), " ", "_")+".ogg")
	return path, os.WriteFile(path, []byte("clip"), 0o644)
}

// fakeSynth satisfies speech.Synthesizer.
type fakeSynth struct {
	texts []string
	err   error
}

func (s *fakeSynth) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	s.texts = append(s.texts, text)
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader("OggS:" + text)), nil
}

var errUnreachable = errors.New("speech service unreachable")

func card(pairs ...any) Card {
	var c Card
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case string:
			c.Set(name, Text(v))
		case bool:
			c.Set(name, Flag(v))
		case nil:
			c.Set(name, Absent())
		case Value:
			c.Set(name, v)
		}
	}
	return c
}
