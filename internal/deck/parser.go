package deck

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fanki/internal/logging"
	"fanki/internal/media"
)

// AssetConverter converts a classified asset and returns the output path.
type AssetConverter interface {
	Convert(ctx context.Context, asset media.Asset) (string, error)
}

// Parser resolves card fields for one deck.
type Parser struct {
	deckDir   string
	converter AssetConverter
	speech    *speechResolver
	media     *MediaSet
	logger    *slog.Logger

	// sources maps each converted output to the asset it was made from.
	sources map[string]string
}

// NewParser builds a parser for the deck rooted at deckDir. Converted files
// and speech clips are recorded in set. A nil clips disables speech
// directives; they still resolve to empty text.
func NewParser(deckDir string, converter AssetConverter, clips ClipSource, set *MediaSet, logger *slog.Logger) *Parser {
	logger = logging.NewComponentLogger(logger, "parser")
	return &Parser{
		deckDir:   deckDir,
		converter: converter,
		speech:    &speechResolver{clips: clips, media: set, logger: logger},
		media:     set,
		logger:    logger,
		sources:   make(map[string]string),
	}
}

// Resolve returns a fully resolved copy of card: every value is text.
// Conversion failures are returned; speech failures are not.
func (p *Parser) Resolve(ctx context.Context, card Card) (Card, error) {
	out := card.Clone()
	names := out.Names()

	for _, name := range names {
		if isSpeechDirective(name) {
			continue
		}
		value := out.Get(name)
		if !value.IsText() {
			continue
		}
		resolved, err := p.ResolveField(ctx, name, value.String())
		if err != nil {
			return Card{}, err
		}
		out.Set(name, Text(resolved))
	}

	for _, name := range names {
		if isSpeechDirective(name) {
			p.speech.resolve(ctx, &out, name)
		}
	}

	for _, name := range out.Names() {
		if !out.Get(name).IsText() {
			out.Set(name, Text(""))
		}
	}
	return out, nil
}

// ResolveField resolves one ordinary field value. Values that are not a
// usable asset reference for this field come back unchanged.
func (p *Parser) ResolveField(ctx context.Context, name, value string) (string, error) {
	asset, ok := media.Classify(p.deckDir, value)
	if !ok {
		if strings.HasPrefix(value, media.AssetPrefix) {
			p.logger.Debug("asset reference kept as text",
				logging.String(logging.FieldEventType, "asset_unresolved"),
				logging.String(logging.FieldField, name),
				logging.String("value", value),
			)
		}
		return value, nil
	}
	if !media.Embeds(name, asset.Kind) {
		p.logger.Debug("asset kind does not match field",
			logging.String(logging.FieldEventType, "asset_kind_mismatch"),
			logging.String(logging.FieldField, name),
			logging.String("kind", asset.Kind.String()),
		)
		return value, nil
	}
	dest, err := p.converter.Convert(ctx, asset)
	if err != nil {
		return "", err
	}
	if prev, ok := p.sources[dest]; ok && prev != asset.Path {
		return "", fmt.Errorf("%w: %s and %s both convert to %s",
			ErrMediaCollision, p.relative(prev), asset.Ref, filepath.Base(dest))
	}
	p.sources[dest] = asset.Path
	p.media.Add(dest)
	return media.Markup(asset.Kind, filepath.Base(dest)), nil
}

func (p *Parser) relative(path string) string {
	if rel, err := filepath.Rel(p.deckDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
