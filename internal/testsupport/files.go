package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fanki/internal/config"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDeck writes data.json for namespace/alias under the config's deck root
// and returns the deck directory. Each asset name is created under assets/.
func WriteDeck(t testing.TB, cfg *config.Config, namespace, alias, definition string, assets ...string) string {
	t.Helper()

	dir := filepath.Join(cfg.Paths.RootDir, namespace, alias)
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir deck dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(definition), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	for _, name := range assets {
		WriteFile(t, filepath.Join(dir, "assets", name), 64)
	}
	return dir
}
