package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/5h1v4n1-2025/daruma/pkg/audio"
	"github.com/5h1v4n1-2025/daruma/pkg/tts/handlers"
)

// ElevenLabs synthesizes speech through the ElevenLabs REST API.
type ElevenLabs struct {
	client   *handlers.Client
	modelID  string
	maxChars int
}

func NewElevenLabs(client *handlers.Client, modelID string, maxChars int) *ElevenLabs {
	if modelID == "" {
		modelID = "eleven_monolingual_v1"
	}
	return &ElevenLabs{
		client:   client,
		modelID:  modelID,
		maxChars: maxChars,
	}
}

func (e *ElevenLabs) Format() string {
	return audio.FormatMP3
}

// Synthesize converts text into mp3 bytes spoken by voiceID. Text over
// the service limit is split at sentence boundaries and the pieces are
// joined back into a single segment.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	chunks := SplitText(text, e.maxChars)
	if len(chunks) == 1 {
		return e.client.Convert(ctx, chunks[0], voiceID, e.modelID)
	}

	segments := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		segment, err := e.client.Convert(ctx, chunk, voiceID, e.modelID)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		segments = append(segments, segment)
	}

	return audio.Join(segments)
}
