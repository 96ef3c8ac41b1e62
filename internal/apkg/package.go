package apkg

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fanki/internal/fileutil"
)

// Package bundles one deck with the media files its notes reference.
type Package struct {
	Deck       *Deck
	MediaFiles []string
	// Now stamps ids and modification times; defaults to time.Now.
	Now func() time.Time
}

// Validate checks the deck, model, and media list before anything is written.
func (p *Package) Validate() error {
	if p.Deck == nil {
		return errors.New("package has no deck")
	}
	if p.Deck.ID < 0 {
		return errors.New("deck id must not be negative")
	}
	if p.Deck.Name == "" {
		return errors.New("deck name is required")
	}
	if err := p.Deck.Model.Validate(); err != nil {
		return fmt.Errorf("model %q: %w", p.Deck.Model.Name, err)
	}
	names := make(map[string]string, len(p.MediaFiles))
	for _, path := range p.MediaFiles {
		base := filepath.Base(path)
		if prev, ok := names[base]; ok && prev != path {
			return fmt.Errorf("media name %q used by both %s and %s", base, prev, path)
		}
		names[base] = path
	}
	return nil
}

// WriteFile writes the package to path through a sibling temp file, so a
// failed build never leaves a partial archive behind.
func (p *Package) WriteFile(ctx context.Context, path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(p.WriteTo(ctx, pw))
	}()
	err := fileutil.WriteFileAtomic(path, pr)
	_ = pr.CloseWithError(err)
	if err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	return nil
}

// WriteTo streams the zip archive to w.
func (p *Package) WriteTo(ctx context.Context, w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	scratch, err := os.MkdirTemp("", "fanki-apkg-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	dbPath := filepath.Join(scratch, "collection.anki2")
	if err := writeCollection(ctx, dbPath, p.Deck, now); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := addFile(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	index := make(map[string]string)
	seen := make(map[string]struct{})
	member := 0
	for _, path := range p.MediaFiles {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := strconv.Itoa(member)
		if err := addFile(zw, name, path); err != nil {
			return err
		}
		index[name] = filepath.Base(path)
		member++
	}

	mediaJSON, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode media index: %w", err)
	}
	mw, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("add media index: %w", err)
	}
	if _, err := mw.Write(mediaJSON); err != nil {
		return fmt.Errorf("write media index: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}
