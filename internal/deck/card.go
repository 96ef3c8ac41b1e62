package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ValueKind distinguishes the shapes a card field may take in a definition.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueFlag
)

// Value is a raw or resolved card field: absent (JSON null or missing),
// text, or a boolean flag used by speech directives.
type Value struct {
	kind ValueKind
	text string
	flag bool
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: ValueText, text: s} }

// Flag returns a boolean flag value.
func Flag(b bool) Value { return Value{kind: ValueFlag, flag: b} }

// Absent returns the empty value.
func Absent() Value { return Value{} }

// Kind reports the value's shape.
func (v Value) Kind() ValueKind { return v.kind }

// IsText reports whether v holds text.
func (v Value) IsText() bool { return v.kind == ValueText }

// IsTrue reports whether v is the flag true.
func (v Value) IsTrue() bool { return v.kind == ValueFlag && v.flag }

// String returns the text content, or "" for flags and absent values.
func (v Value) String() string {
	if v.kind == ValueText {
		return v.text
	}
	return ""
}

// UnmarshalJSON accepts strings, booleans, numbers (kept as their literal
// text), and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Absent()
	case bytes.Equal(data, []byte("true")):
		*v = Flag(true)
	case bytes.Equal(data, []byte("false")):
		*v = Flag(false)
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported field value %s", data)
		}
		*v = Text(n.String())
	}
	return nil
}

// Card is an ordered mapping of field names to values. The zero value is an
// empty card ready for use.
type Card struct {
	names  []string
	values map[string]Value
}

// Set stores value under name, appending name if it is new.
func (c *Card) Set(name string, value Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// Get returns the value for name, or an absent value.
func (c Card) Get(name string) Value {
	return c.values[name]
}

// Has reports whether name is present, even with an absent value.
func (c Card) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names returns field names in insertion order.
func (c Card) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of fields.
func (c Card) Len() int { return len(c.names) }

// Clone returns an independent copy.
func (c Card) Clone() Card {
	out := Card{
		names:  append([]string(nil), c.names...),
		values: make(map[string]Value, len(c.values)),
	}
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (c *Card) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("card must be a JSON object")
	}
	*c = Card{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected card key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		var value Value
		if err := value.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		c.Set(name, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
