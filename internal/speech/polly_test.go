package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"fanki/internal/config"
)

type fakePolly struct {
	inputs []*polly.SynthesizeSpeechInput
	err    error
}

func (f *fakePolly) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &polly.SynthesizeSpeechOutput{AudioStream: io.NopCloser(strings.NewReader("OggS"))}, nil
}

func speechConfig() config.Speech {
	return config.Speech{Enabled: true, Language: "fr", ProsodyRate: "slow", Engine: "neural"}
}

func TestPollySynthesizerSendsSSML(t *testing.T) {
	client := &fakePolly{}
	synth, err := NewPollySynthesizer(client, speechConfig(), WithVoicePicker(func(n int) int { return n - 1 }))
	if err != nil {
		t.Fatalf("NewPollySynthesizer: %v", err)
	}

	stream, err := synth.Synthesize(context.Background(), "l'eau & <le> vin")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	body, _ := io.ReadAll(stream)
	_ = stream.Close()
	if string(body) != "OggS" {
		t.Fatalf("unexpected audio %q", body)
	}

	in := client.inputs[0]
	if in.VoiceId != "Remi" {
		t.Fatalf("expected picked voice Remi, got %s", in.VoiceId)
	}
	if in.Engine != types.EngineNeural || in.OutputFormat != types.OutputFormatOggVorbis {
		t.Fatalf("unexpected engine/format %s/%s", in.Engine, in.OutputFormat)
	}
	if in.TextType != types.TextTypeSsml {
		t.Fatalf("expected ssml text type, got %s", in.TextType)
	}
	want := `<speak><prosody rate="slow">l&#39;eau &amp; &lt;le&gt; vin</prosody></speak>`
	if got := aws.ToString(in.Text); got != want {
		t.Fatalf("ssml = %q, want %q", got, want)
	}
}

func TestPollySynthesizerPlainTextWithoutProsody(t *testing.T) {
	client := &fakePolly{}
	cfg := speechConfig()
	cfg.Language = "EN"
	cfg.ProsodyRate = ""
	synth, err := NewPollySynthesizer(client, cfg, WithVoicePicker(func(int) int { return 0 }))
	if err != nil {
		t.Fatalf("NewPollySynthesizer: %v", err)
	}
	if _, err := synth.Synthesize(context.Background(), "Hello"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	in := client.inputs[0]
	if in.VoiceId != "Matthew" || in.TextType != types.TextTypeText || aws.ToString(in.Text) != "Hello" {
		t.Fatalf("unexpected input: voice=%s type=%s text=%q", in.VoiceId, in.TextType, aws.ToString(in.Text))
	}
}

func TestPollySynthesizerUnsupportedLanguage(t *testing.T) {
	cfg := speechConfig()
	cfg.Language = "de"
	_, err := NewPollySynthesizer(&fakePolly{}, cfg)
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestPollySynthesizerPropagatesServiceError(t *testing.T) {
	client := &fakePolly{err: errors.New("connection refused")}
	synth, err := NewPollySynthesizer(client, speechConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := synth.Synthesize(context.Background(), "Bonjour"); !errors.Is(err, client.err) {
		t.Fatalf("expected wrapped service error, got %v", err)
	}
}

func TestCheckCredentialsStaticKeys(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent/credentials")
	cfg := speechConfig()
	cfg.Region = "us-east-1"
	cfg.AccessKeyID = "AKIDEXAMPLE"
	cfg.SecretAccessKey = "secret"

	source, err := CheckCredentials(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CheckCredentials: %v", err)
	}
	if source == "" {
		t.Fatal("expected credential source")
	}
}

func TestLanguages(t *testing.T) {
	if got := strings.Join(Languages(), ","); got != "en,fr" {
		t.Fatalf("Languages() = %s", got)
	}
}
