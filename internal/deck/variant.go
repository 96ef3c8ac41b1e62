package deck

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"fanki/internal/apkg"
)

//go:embed templates
var templateFS embed.FS

// DefaultVariant is used when a definition does not name one.
const DefaultVariant = "default"

// Variant is a note type a deck can be built with. The set is closed: see
// LookupVariant.
type Variant interface {
	// Name is the identifier used in data.json.
	Name() string
	// Template builds the note type. Field order is the note's column order.
	Template() apkg.Model
	// InputFields lists the card keys accepted from a definition: every
	// template field plus the speech directives.
	InputFields() []string
	// ImportCards keeps only accepted keys, in InputFields order.
	ImportCards(raw []Card) ([]Card, error)
}

// DefaultDeck is a one-directional vocabulary card with optional image,
// audio, example sentence, pronunciation and a video clip on the back.
type DefaultDeck struct{}

func (DefaultDeck) Name() string { return "default" }

func (DefaultDeck) Template() apkg.Model {
	return apkg.Model{
		ID:   1607392319,
		Name: "FM Default",
		Fields: fields(
			"front", "front_image", "front_audio",
			"back", "back_image", "back_audio",
			"back_sentence", "back_sentence_audio",
			"back_ipa", "back_video",
		),
		Templates: []apkg.Template{
			{Name: "Card1", QFmt: mustTemplate("default/front.html"), AFmt: mustTemplate("default/back.html")},
		},
		CSS: mustTemplate("default/style.css"),
	}
}

func (DefaultDeck) InputFields() []string {
	return []string{
		"front", "front_image", "front_audio", "front_tts",
		"back", "back_image", "back_audio", "back_tts",
		"back_sentence", "back_sentence_audio", "back_sentence_tts",
		"back_ipa", "back_video",
	}
}

func (d DefaultDeck) ImportCards(raw []Card) ([]Card, error) {
	return importCards(raw, d.InputFields())
}

// ReversedDeck produces two cards per note, front to back and back to front.
type ReversedDeck struct{}

func (ReversedDeck) Name() string { return "reversed" }

func (ReversedDeck) Template() apkg.Model {
	return apkg.Model{
		ID:     1607392320,
		Name:   "FM Reversed",
		Fields: fields("front", "front_image", "front_audio", "back", "back_image", "back_audio"),
		Templates: []apkg.Template{
			{Name: "Forward", QFmt: mustTemplate("reversed/forward.html"), AFmt: mustTemplate("reversed/forward_back.html")},
			{Name: "Reverse", QFmt: mustTemplate("reversed/reverse.html"), AFmt: mustTemplate("reversed/reverse_back.html")},
		},
		CSS: mustTemplate("reversed/style.css"),
	}
}

func (ReversedDeck) InputFields() []string {
	return []string{
		"front", "front_image", "front_audio", "front_tts",
		"back", "back_image", "back_audio", "back_tts",
	}
}

func (d ReversedDeck) ImportCards(raw []Card) ([]Card, error) {
	return importCards(raw, d.InputFields())
}

var variants = map[string]Variant{
	DefaultDeck{}.Name():  DefaultDeck{},
	ReversedDeck{}.Name(): ReversedDeck{},
}

// Variants returns the known variant names, sorted.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupVariant returns the variant registered under name. An empty name
// selects DefaultVariant.
func LookupVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultVariant
	}
	v, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("unknown deck variant %q (known: %s)", name, strings.Join(Variants(), ", "))
	}
	return v, nil
}

func importCards(raw []Card, inputs []string) ([]Card, error) {
	cards := make([]Card, 0, len(raw))
	for i, in := range raw {
		var out Card
		for _, name := range inputs {
			if in.Has(name) {
				out.Set(name, in.Get(name))
			}
		}
		if out.Len() == 0 {
			return nil, fmt.Errorf("card %d: unknown keys are ignored and none of the fields %s remain, so the card would render empty",
				i, strings.Join(inputs, ", "))
		}
		cards = append(cards, out)
	}
	return cards, nil
}

func fields(names ...string) []apkg.Field {
	out := make([]apkg.Field, len(names))
	for i, name := range names {
		out[i] = apkg.Field{Name: name}
	}
	return out
}

func mustTemplate(name string) string {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing embedded template %s: %v", name, err))
	}
	return string(data)
}
