package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fanki/internal/media"
)

// DefinitionFile is the descriptor name inside a deck directory.
const DefinitionFile = "data.json"

// Definition is a loaded deck descriptor. Namespace and Alias come from the
// two directories enclosing data.json, not from its content.
type Definition struct {
	ID        int64
	Name      string
	Variant   string
	Namespace string
	Alias     string
	Dir       string
	Cards     []Card
}

// Key returns namespace/alias.
func (d *Definition) Key() string {
	return d.Namespace + "/" + d.Alias
}

// AssetsDir returns the deck's assets directory.
func (d *Definition) AssetsDir() string {
	return filepath.Join(d.Dir, strings.TrimSuffix(media.AssetPrefix, "/"))
}

// Locate returns the descriptor path for namespace/alias under root.
func Locate(root, namespace, alias string) string {
	return filepath.Join(root, namespace, alias, DefinitionFile)
}

type rawDefinition struct {
	ID      json.RawMessage `json:"id"`
	Name    *string         `json:"name"`
	Variant string          `json:"variant"`
	Cards   []Card          `json:"cards"`
}

// LoadDefinition reads and validates the descriptor at path. Every failure
// is a *ConfigError; no card is looked at beyond decoding.
func LoadDefinition(path string) (*Definition, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &ConfigError{Path: abs, Err: err}
	}

	var raw rawDefinition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ConfigError{Path: abs, Err: fmt.Errorf("parse json: %w", err)}
	}

	id, err := parseID(raw.ID)
	if err != nil {
		return nil, &ConfigError{Path: abs, Field: "id", Err: err}
	}
	if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
		return nil, configErr(abs, "name", "required")
	}
	if len(raw.Cards) == 0 {
		return nil, configErr(abs, "cards", "at least one card required")
	}

	dir := filepath.Dir(abs)
	def := &Definition{
		ID:        id,
		Name:      strings.TrimSpace(*raw.Name),
		Variant:   raw.Variant,
		Namespace: filepath.Base(filepath.Dir(dir)),
		Alias:     filepath.Base(dir),
		Dir:       dir,
		Cards:     raw.Cards,
	}
	if def.Variant == "" {
		def.Variant = DefaultVariant
	}
	if _, err := LookupVariant(def.Variant); err != nil {
		return nil, &ConfigError{Path: abs, Field: "variant", Err: err}
	}

	info, err := os.Stat(def.AssetsDir())
	if err != nil {
		return nil, &ConfigError{Path: abs, Field: "assets", Err: err}
	}
	if !info.IsDir() {
		return nil, configErr(abs, "assets", "%s is not a directory", def.AssetsDir())
	}
	return def, nil
}

// parseID accepts a non-negative integer, as a JSON number or numeric string.
func parseID(raw json.RawMessage) (int64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, errors.New("required")
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		text = strings.TrimSpace(s)
	}
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a non-negative integer, got %s", text)
	}
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("%d is out of range", id)
	}
	return int64(id), nil
}
