package deck

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fanki/internal/apkg"
	"fanki/internal/fileutil"
	"fanki/internal/logging"
)

// PackageExt is the extension of generated packages.
const PackageExt = ".apkg"

var noteNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("fanki.note"))

// ArtifactPath returns <packagesDir>/<namespace>_<alias>.apkg.
func ArtifactPath(packagesDir, namespace, alias string) string {
	return filepath.Join(packagesDir, namespace+"_"+alias+PackageExt)
}

// Project orders card values by fields, using "" for missing names.
func Project(card Card, fields []string) []string {
	out := make([]string, len(fields))
	for i, name := range fields {
		out[i] = card.Get(name).String()
	}
	return out
}

// NoteGUID derives a stable note identifier from the deck id and the
// projected field values, so rebuilding an unchanged deck updates notes in
// place on import instead of duplicating them.
func NoteGUID(deckID int64, fields []string) string {
	key := strconv.FormatInt(deckID, 10) + "\x1f" + strings.Join(fields, "\x1f")
	return uuid.NewSHA1(noteNamespace, []byte(key)).String()
}

// Assembler writes resolved cards into a package.
type Assembler struct {
	PackagesDir string
	Now         func() time.Time
	Logger      *slog.Logger
}

// Assemble validates the package for def, removes stale packages, then
// writes the new one and returns its path. A package that fails validation
// leaves earlier packages in place.
func (a *Assembler) Assemble(ctx context.Context, def *Definition, model apkg.Model, cards []Card, set *MediaSet) (string, error) {
	logger := logging.NewComponentLogger(a.Logger, "assembler")
	fieldNames := model.FieldNames()

	d := &apkg.Deck{ID: def.ID, Name: def.Name, Model: model}
	for i, card := range cards {
		values := Project(card, fieldNames)
		if err := d.AddNote(apkg.Note{GUID: NoteGUID(def.ID, values), Fields: values}); err != nil {
			return "", fmt.Errorf("card %d: %w", i, err)
		}
	}

	pkg := &apkg.Package{Deck: d, MediaFiles: set.Paths(), Now: a.Now}
	if err := pkg.Validate(); err != nil {
		return "", err
	}

	removed, err := RemoveStalePackages(def.Dir, a.PackagesDir, def.Namespace, def.Alias)
	if err != nil {
		return "", err
	}
	for _, path := range removed {
		logger.Debug("stale package removed",
			logging.String(logging.FieldEventType, "package_removed"),
			logging.String("path", path),
		)
	}

	out := ArtifactPath(a.PackagesDir, def.Namespace, def.Alias)
	if err := pkg.WriteFile(ctx, out); err != nil {
		return "", err
	}
	return out, nil
}

// RemoveStalePackages deletes every package in deckDir and, in packagesDir,
// <namespace>_<alias>.apkg plus versioned <namespace>_<alias>.*.apkg copies.
func RemoveStalePackages(deckDir, packagesDir, namespace, alias string) ([]string, error) {
	var removed []string

	remove := func(dir string, match func(name string) bool) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("list %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !match(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := fileutil.RemoveIfExists(path); err != nil {
				return fmt.Errorf("remove stale package: %w", err)
			}
			removed = append(removed, path)
		}
		return nil
	}

	if err := remove(deckDir, func(name string) bool {
		return strings.HasSuffix(name, PackageExt)
	}); err != nil {
		return removed, err
	}

	stem := namespace + "_" + alias
	if err := remove(packagesDir, func(name string) bool {
		if !strings.HasSuffix(name, PackageExt) {
			return false
		}
		trimmed := strings.TrimSuffix(name, PackageExt)
		return trimmed == stem || strings.HasPrefix(trimmed, stem+".")
	}); err != nil {
		return removed, err
	}
	return removed, nil
}
