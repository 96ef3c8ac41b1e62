package apkg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Field is one named note field.
type Field struct {
	Name string
}

// Template renders one card from a note.
type Template struct {
	Name string
	QFmt string
	AFmt string
}

// Model is a note type: ordered fields, card templates, and styling.
type Model struct {
	ID        int64
	Name      string
	Fields    []Field
	Templates []Template
	CSS       string
}

// FieldNames returns the field names in declared order.
func (m Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the model can be written.
func (m Model) Validate() error {
	if m.ID <= 0 {
		return errors.New("model id must be positive")
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("model name is required")
	}
	if len(m.Fields) == 0 {
		return errors.New("model needs at least one field")
	}
	if len(m.Templates) == 0 {
		return errors.New("model needs at least one template")
	}
	seen := make(map[string]struct{}, len(m.Fields))
	for _, f := range m.Fields {
		if f.Name == "" {
			return errors.New("model field name is required")
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate model field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for i, tmpl := range m.Templates {
		if len(m.requiredFields(i)) == 0 {
			return fmt.Errorf("template %q references no fields", tmpl.Name)
		}
	}
	return nil
}

var fieldRefPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// requiredFields lists the ordinals of fields the question side of template
// ord references. A card is generated when any of them is non-empty.
func (m Model) requiredFields(ord int) []int {
	index := make(map[string]int, len(m.Fields))
	for i, f := range m.Fields {
		index[f.Name] = i
	}
	var out []int
	seen := make(map[int]struct{})
	for _, match := range fieldRefPattern.FindAllStringSubmatch(m.Templates[ord].QFmt, -1) {
		ref := strings.TrimSpace(match[1])
		ref = strings.TrimLeft(ref, "#^/")
		if i := strings.LastIndex(ref, ":"); i >= 0 {
			ref = ref[i+1:]
		}
		if i, ok := index[strings.TrimSpace(ref)]; ok {
			if _, dup := seen[i]; !dup {
				seen[i] = struct{}{}
				out = append(out, i)
			}
		}
	}
	return out
}

// Note is one row of field values, aligned with the model's fields.
type Note struct {
	GUID   string
	Fields []string
	Tags   []string
}

// cardOrds returns the template ordinals this note generates cards for.
func (n Note) cardOrds(m Model) []int {
	var ords []int
	for ord := range m.Templates {
		for _, fieldOrd := range m.requiredFields(ord) {
			if fieldOrd < len(n.Fields) && strings.TrimSpace(n.Fields[fieldOrd]) != "" {
				ords = append(ords, ord)
				break
			}
		}
	}
	return ords
}

// Deck is a named collection of notes sharing one model.
type Deck struct {
	ID          int64
	Name        string
	Description string
	Model       Model
	Notes       []Note
}

// AddNote appends a note after checking it matches the model's field count.
func (d *Deck) AddNote(note Note) error {
	if len(note.Fields) != len(d.Model.Fields) {
		return fmt.Errorf("note has %d fields, model %q expects %d", len(note.Fields), d.Model.Name, len(d.Model.Fields))
	}
	if note.GUID == "" {
		return errors.New("note guid is required")
	}
	d.Notes = append(d.Notes, note)
	return nil
}
