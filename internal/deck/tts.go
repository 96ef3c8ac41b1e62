package deck

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"fanki/internal/logging"
	"fanki/internal/media"
	"fanki/internal/textutil"
)

const (
	ttsSuffix   = "_tts"
	audioSuffix = "_audio"
)

// ClipSource returns the on-disk path of a speech clip for text.
type ClipSource interface {
	Resolve(ctx context.Context, text string) (string, error)
}

func isSpeechDirective(name string) bool {
	return strings.HasSuffix(name, ttsSuffix)
}

// speechSource picks the text to synthesize for directive field name, or
// reports false when the directive does not apply:
//   - the sibling <base>_audio already holds something,
//   - the directive is true but <base> is empty,
//   - the directive is false, absent, or an empty string.
//
// A true directive reads <base> with markup stripped; a string directive is
// used verbatim.
func speechSource(card Card, name string) (string, bool) {
	base := strings.TrimSuffix(name, ttsSuffix)
	if card.Get(base+audioSuffix).String() != "" {
		return "", false
	}
	directive := card.Get(name)
	var text string
	switch {
	case directive.IsTrue():
		text = textutil.StripMarkup(card.Get(base).String())
	case directive.IsText():
		text = directive.String()
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// speechResolver applies speech directives using clips. Failures are
// absorbed: the card keeps whatever audio it had.
type speechResolver struct {
	clips  ClipSource
	media  *MediaSet
	logger *slog.Logger
}

// resolve handles directive name on card in place. card is the parser's
// working copy, never the caller's input.
func (r *speechResolver) resolve(ctx context.Context, card *Card, name string) {
	defer card.Set(name, Text(""))

	text, ok := speechSource(*card, name)
	if !ok || r.clips == nil {
		return
	}
	path, err := r.clips.Resolve(ctx, text)
	if err != nil {
		r.logger.Debug("speech skipped",
			logging.String(logging.FieldEventType, "speech_skipped"),
			logging.String(logging.FieldField, name),
			logging.Error(err),
		)
		return
	}
	r.media.Add(path)
	base := strings.TrimSuffix(name, ttsSuffix)
	card.Set(base+audioSuffix, Text(media.SoundTag(filepath.Base(path))))
}
