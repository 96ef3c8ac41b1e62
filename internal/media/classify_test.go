package media

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, deckDir, name string) string {
	t.Helper()
	path := filepath.Join(deckDir, "assets", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"cat.png", KindImage},
		{"CAT.JPEG", KindImage},
		{"scan.tif", KindImage},
		{"word.mp3", KindAudio},
		{"word.M4A", KindAudio},
		{"clip.mkv", KindVideo},
		{"clip.swf", KindVideo},
		{"notes.txt", KindNone},
		{"noext", KindNone},
	}
	for _, tt := range tests {
		if got := KindOf(tt.name); got != tt.want {
			t.Errorf("KindOf(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	deckDir := t.TempDir()
	catPath := writeAsset(t, deckDir, "cat.png")
	writeAsset(t, deckDir, "readme.txt")
	if err := os.WriteFile(filepath.Join(deckDir, "outside.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(deckDir, "assets", "folder.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	asset, ok := Classify(deckDir, "assets/cat.png")
	if !ok {
		t.Fatal("expected existing image to classify")
	}
	if asset.Kind != KindImage || asset.Path != catPath || asset.Ref != "assets/cat.png" {
		t.Fatalf("unexpected asset %+v", asset)
	}

	literals := []string{
		"cat.png",
		"Bonjour",
		"<b>assets/cat.png</b>",
		"assets/missing.png",
		"assets/readme.txt",
		"assets/../outside.png",
		"assets/folder.png",
		"assets/",
	}
	for _, value := range literals {
		if _, ok := Classify(deckDir, value); ok {
			t.Errorf("Classify(%q) should be literal", value)
		}
	}
}

func TestEmbeds(t *testing.T) {
	tests := []struct {
		field string
		kind  Kind
		want  bool
	}{
		{"front_audio", KindAudio, true},
		{"front", KindAudio, false},
		{"back_video", KindVideo, true},
		{"back_audio", KindVideo, false},
		{"front", KindImage, true},
		{"back_audio", KindImage, true},
		{"front", KindNone, false},
	}
	for _, tt := range tests {
		if got := Embeds(tt.field, tt.kind); got != tt.want {
			t.Errorf("Embeds(%q, %s) = %v, want %v", tt.field, tt.kind, got, tt.want)
		}
	}
}

func TestMarkup(t *testing.T) {
	if got := Markup(KindAudio, "a.ogg"); got != "[sound:a.ogg]" {
		t.Fatalf("audio markup = %q", got)
	}
	if got := Markup(KindImage, "a.webp"); got != `<img src="a.webp">` {
		t.Fatalf("image markup = %q", got)
	}
	if got := Markup(KindVideo, "a.mp4"); got != "a.mp4" {
		t.Fatalf("video markup = %q", got)
	}
}
