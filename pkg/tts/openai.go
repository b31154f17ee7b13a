package tts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/5h1v4n1-2025/daruma/pkg/audio"
	"github.com/sashabaranov/go-openai"
)

// OpenAI synthesizes speech through the OpenAI audio endpoint.
type OpenAI struct {
	client   *openai.Client
	model    string
	maxChars int
}

func NewOpenAI(apiKey, model string, maxChars int) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	return &OpenAI{
		client:   openai.NewClient(apiKey),
		model:    model,
		maxChars: maxChars,
	}
}

func (o *OpenAI) Format() string {
	return audio.FormatMP3
}

func (o *OpenAI) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	chunks := SplitText(text, o.maxChars)
	segments := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		segment, err := o.speech(ctx, chunk, voiceID)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		segments = append(segments, segment)
	}

	if len(segments) == 1 {
		return segments[0], nil
	}
	return audio.Join(segments)
}

func (o *OpenAI) speech(ctx context.Context, text, voiceID string) ([]byte, error) {
	request := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Voice:          openai.SpeechVoice(voiceID),
		Input:          text,
	}

	resp, err := o.client.CreateSpeech(ctx, request)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	return io.ReadAll(resp)
}
