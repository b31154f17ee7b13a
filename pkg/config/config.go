package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/5h1v4n1-2025/daruma/pkg/ai"
	"github.com/5h1v4n1-2025/daruma/pkg/voices"
)

// Secrets are read from the process environment. The config file is a
// fallback so local app.env setups keep working.
type Secrets struct {
	ElevenLabsAPIKey string `env:"ELEVEN_LABS_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	DeepgramAPIKey   string `env:"DEEPGRAM_API_KEY"`
}

type Config struct {
	Addr string `validate:"required"`

	// Character extraction model.
	LLMProvider string `validate:"required,oneof=openai anthropic"`
	LLMModel    string `validate:"required"`

	// Speech synthesis provider.
	TTSProvider string `validate:"required,oneof=elevenlabs openai deepgram"`
	TTSModel    string `validate:"required"`

	// Voice used for narration and as fallback for unmatched speakers.
	NarratorVoice string `validate:"required"`

	// Per-utterance synthesis parallelism within one request.
	MaxParallel int `validate:"min=1,max=32"`

	// Hard deadline for one request, extraction through assembly.
	RequestTimeout time.Duration `validate:"required"`

	// Per upstream call timeout.
	UpstreamTimeout time.Duration `validate:"required"`

	// Longest text a single synthesis call may carry. Longer utterances
	// are split at sentence boundaries, never truncated.
	MaxSynthesisChars int `validate:"min=100"`

	// Token budget for the extraction prompt.
	MaxPromptTokens int `validate:"min=256"`

	Secrets Secrets
}

// Load builds the configuration from viper (app.env file plus
// environment) and the process environment for secrets.
func Load() (*Config, error) {
	// Model and narrator defaults depend on the synthesis provider:
	// voice ids are not portable between services.
	ttsProvider := stringOr("DARUMA_TTS_PROVIDER", "elevenlabs")

	cfg := &Config{
		Addr:              stringOr("DARUMA_ADDR", ":8080"),
		LLMProvider:       stringOr("DARUMA_PROVIDER", "openai"),
		LLMModel:          stringOr("DARUMA_MODEL", "gpt-4o-mini"),
		TTSProvider:       ttsProvider,
		TTSModel:          stringOr("DARUMA_TTS_MODEL", defaultTTSModel(ttsProvider)),
		NarratorVoice:     stringOr("DARUMA_NARRATOR_VOICE", defaultNarratorVoice(ttsProvider)),
		MaxParallel:       intOr("DARUMA_MAX_PARALLEL", 4),
		RequestTimeout:    durationOr("DARUMA_REQUEST_TIMEOUT", 3*time.Minute),
		UpstreamTimeout:   durationOr("DARUMA_UPSTREAM_TIMEOUT", 45*time.Second),
		MaxSynthesisChars: intOr("DARUMA_MAX_SYNTHESIS_CHARS", 2000),
		MaxPromptTokens:   intOr("DARUMA_MAX_PROMPT_TOKENS", 8192),
	}

	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("reading secrets from environment: %w", err)
	}
	fillSecretFallbacks(&cfg.Secrets)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural rules and that the credentials the
// selected providers need are present. Missing credentials are fatal at
// startup, not at request time.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.LLMAPIKey() == "" {
		return fmt.Errorf("%s is required for provider %q", ai.ProviderKeyName(c.LLMProvider), c.LLMProvider)
	}

	switch c.TTSProvider {
	case "elevenlabs":
		if c.Secrets.ElevenLabsAPIKey == "" {
			return fmt.Errorf("ELEVEN_LABS_API_KEY is required for TTS provider %q", c.TTSProvider)
		}
	case "openai":
		if c.Secrets.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for TTS provider %q", c.TTSProvider)
		}
	case "deepgram":
		if c.Secrets.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is required for TTS provider %q", c.TTSProvider)
		}
	}

	// OpenAI and Deepgram have fixed voice sets, so a narrator voice
	// outside the catalog can never synthesize. ElevenLabs accounts
	// carry custom voices, so membership is not checked there.
	if c.TTSProvider != "elevenlabs" && !voices.CatalogFor(c.TTSProvider).Contains(c.NarratorVoice) {
		return fmt.Errorf("narrator voice %q is not a %s voice", c.NarratorVoice, c.TTSProvider)
	}

	return nil
}

func defaultTTSModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini-tts"
	case "deepgram":
		return "aura-hera-en"
	default:
		return "eleven_monolingual_v1"
	}
}

func defaultNarratorVoice(provider string) string {
	switch provider {
	case "openai":
		return "shimmer"
	case "deepgram":
		return "aura-hera-en"
	default:
		return "21m00Tcm4TlvDq8ikWAM"
	}
}

// LLMAPIKey returns the credential matching the extraction provider.
func (c *Config) LLMAPIKey() string {
	if strings.EqualFold(c.LLMProvider, "anthropic") {
		return c.Secrets.AnthropicAPIKey
	}
	return c.Secrets.OpenAIAPIKey
}

func fillSecretFallbacks(s *Secrets) {
	if s.ElevenLabsAPIKey == "" {
		s.ElevenLabsAPIKey = viper.GetString("ELEVEN_LABS_API_KEY")
	}
	if s.OpenAIAPIKey == "" {
		s.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	}
	if s.AnthropicAPIKey == "" {
		s.AnthropicAPIKey = viper.GetString("ANTHROPIC_API_KEY")
	}
	if s.DeepgramAPIKey == "" {
		s.DeepgramAPIKey = viper.GetString("DEEPGRAM_API_KEY")
	}
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := viper.GetDuration(key); v != 0 {
		return v
	}
	return fallback
}
