package tts

import (
	"context"
	"fmt"

	"github.com/5h1v4n1-2025/daruma/pkg/config"
	"github.com/5h1v4n1-2025/daruma/pkg/tts/handlers"
)

// Synthesizer converts one utterance's text into audio spoken by the
// given voice. Every implementation emits mp3 so assembly never has to
// transcode. Concrete implementations wrap ElevenLabs, OpenAI or
// Deepgram.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Format() string
}

// NewSynthesizer builds the provider selected in the configuration.
func NewSynthesizer(cfg *config.Config) (Synthesizer, error) {
	switch cfg.TTSProvider {
	case "elevenlabs":
		return NewElevenLabs(handlers.NewClient(cfg.Secrets.ElevenLabsAPIKey), cfg.TTSModel, cfg.MaxSynthesisChars), nil
	case "openai":
		return NewOpenAI(cfg.Secrets.OpenAIAPIKey, cfg.TTSModel, cfg.MaxSynthesisChars), nil
	case "deepgram":
		return NewDeepgram(cfg.Secrets.DeepgramAPIKey, cfg.TTSModel, cfg.MaxSynthesisChars), nil
	default:
		return nil, fmt.Errorf("unsupported TTS provider: %s", cfg.TTSProvider)
	}
}
