package speech

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"fanki/internal/config"
)

// ErrUnsupportedLanguage is returned for languages without configured voices.
var ErrUnsupportedLanguage = errors.New("unsupported speech language")

// Synthesizer turns text into an encoded audio stream. Callers close the
// returned reader.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// PollyAPI is the subset of the Polly client used for synthesis.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

var voices = map[string][]types.VoiceId{
	"fr": {"Lea", "Remi"},
	"en": {"Matthew", "Joanna"},
}

// Languages lists the language codes with available voices.
func Languages() []string {
	out := make([]string, 0, len(voices))
	for lang := range voices {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// PollySynthesizer synthesizes ogg/vorbis audio with one randomly chosen
// voice per call.
type PollySynthesizer struct {
	client      PollyAPI
	voices      []types.VoiceId
	engine      types.Engine
	prosodyRate string
	pick        func(n int) int
}

// PollyOption customizes a PollySynthesizer.
type PollyOption func(*PollySynthesizer)

// WithVoicePicker replaces the random voice choice; pick returns an index in [0, n).
func WithVoicePicker(pick func(n int) int) PollyOption {
	return func(p *PollySynthesizer) {
		if pick != nil {
			p.pick = pick
		}
	}
}

// NewPollySynthesizer wraps client for the configured language, engine, and
// prosody rate. An empty prosody rate sends plain text instead of SSML.
func NewPollySynthesizer(client PollyAPI, cfg config.Speech, opts ...PollyOption) (*PollySynthesizer, error) {
	if client == nil {
		return nil, errors.New("polly client is required")
	}
	lang := strings.ToLower(strings.TrimSpace(cfg.Language))
	available, ok := voices[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, cfg.Language, strings.Join(Languages(), ", "))
	}
	engine := types.Engine(strings.TrimSpace(cfg.Engine))
	if engine == "" {
		engine = types.EngineNeural
	}
	p := &PollySynthesizer{
		client:      client,
		voices:      available,
		engine:      engine,
		prosodyRate: strings.TrimSpace(cfg.ProsodyRate),
		pick:        rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewPollyClient builds a Polly client from the speech configuration. Static
// keys take precedence over the shared profile.
func NewPollyClient(ctx context.Context, cfg config.Speech) (*polly.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return polly.NewFromConfig(awsCfg), nil
}

// CheckCredentials resolves credentials without calling Polly and reports
// where they came from.
func CheckCredentials(ctx context.Context, cfg config.Speech) (string, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return "", err
	}
	if awsCfg.Credentials == nil {
		return "", errors.New("no credential provider configured")
	}
	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return "", fmt.Errorf("retrieve credentials: %w", err)
	}
	return creds.Source, nil
}

func loadAWSConfig(ctx context.Context, cfg config.Speech) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(cfg.Region); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else if profile := strings.TrimSpace(cfg.Profile); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// Synthesize requests ogg/vorbis audio for text.
func (p *PollySynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("synthesize: empty text")
	}
	voice := p.voices[p.pick(len(p.voices))]
	input := &polly.SynthesizeSpeechInput{
		Engine:       p.engine,
		VoiceId:      voice,
		OutputFormat: types.OutputFormatOggVorbis,
		Text:         aws.String(text),
		TextType:     types.TextTypeText,
	}
	if p.prosodyRate != "" {
		input.Text = aws.String(SSML(text, p.prosodyRate))
		input.TextType = types.TextTypeSsml
	}
	out, err := p.client.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("synthesize with voice %s: %w", voice, err)
	}
	if out == nil || out.AudioStream == nil {
		return nil, fmt.Errorf("synthesize with voice %s: empty audio stream", voice)
	}
	return out.AudioStream, nil
}

// SSML wraps escaped text in a prosody envelope.
func SSML(text, rate string) string {
	return fmt.Sprintf(`<speak><prosody rate="%s">%s</prosody></speak>`, html.EscapeString(rate), html.EscapeString(text))
}
