package speech

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type countingSynth struct {
	calls []string
	err   error
}

func (c *countingSynth) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	c.calls = append(c.calls, text)
	if c.err != nil {
		return nil, c.err
	}
	return io.NopCloser(strings.NewReader("audio:" + text)), nil
}

func TestFileName(t *testing.T) {
	// md5("Bonjour")
	if got := FileName("Bonjour"); got != "tts_ebc58ab2cb4848d04ec23d83f7ddf985.ogg" {
		t.Fatalf("FileName = %q", got)
	}
	if FileName("e\u0301te\u0301") != FileName("\u00e9t\u00e9") {
		t.Fatal("expected canonically equivalent text to share a cache entry")
	}
}

func TestCacheSynthesizesOnceThenHits(t *testing.T) {
	dir := t.TempDir()
	synth := &countingSynth{}
	cache := NewCache(dir, synth, nil)

	first, err := cache.Resolve(context.Background(), "Bonjour")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := cache.Resolve(context.Background(), "Bonjour")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second || first != filepath.Join(dir, FileName("Bonjour")) {
		t.Fatalf("unexpected paths %q and %q", first, second)
	}
	if len(synth.calls) != 1 {
		t.Fatalf("expected one synthesis call, got %d", len(synth.calls))
	}
	body, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "audio:Bonjour" {
		t.Fatalf("unexpected clip %q", body)
	}
}

func TestCacheFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	synth := &countingSynth{err: errors.New("unreachable")}
	cache := NewCache(dir, synth, nil)

	if _, err := cache.Resolve(context.Background(), "Bonjour"); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty cache dir, found %d entries", len(entries))
	}
}

func TestCacheWithoutSynthesizerServesHitsOnly(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, nil, nil)

	if _, err := cache.Resolve(context.Background(), "Salut"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	cached := filepath.Join(dir, FileName("Salut"))
	if err := os.WriteFile(cached, []byte("clip"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := cache.Resolve(context.Background(), "Salut")
	if err != nil || got != cached {
		t.Fatalf("expected cache hit %q, got %q (%v)", cached, got, err)
	}
}
