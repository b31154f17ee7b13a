package tts

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/rest"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/pkg/client/speak"

	"github.com/5h1v4n1-2025/daruma/pkg/audio"
)

// Deepgram synthesizes speech through the Deepgram Aura REST API. The
// SDK writes straight to disk, so segments go through a temp dir.
type Deepgram struct {
	speak    *api.Client
	model    string
	maxChars int
}

func NewDeepgram(apiKey, model string, maxChars int) *Deepgram {
	if model == "" {
		model = "aura-hera-en"
	}
	client.InitWithDefault()
	c := client.NewREST(apiKey, &interfaces.ClientOptions{})

	return &Deepgram{
		speak:    api.New(c),
		model:    model,
		maxChars: maxChars,
	}
}

func (d *Deepgram) Format() string {
	return audio.FormatMP3
}

// Synthesize converts text to mp3 bytes. Deepgram voices are models
// ("aura-hera-en"), so voiceID overrides the configured model when set.
func (d *Deepgram) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	model := d.model
	if strings.HasPrefix(voiceID, "aura-") {
		model = voiceID
	}
	options := &interfaces.SpeakOptions{
		Model: model,
	}

	dir, err := os.MkdirTemp("", "daruma-deepgram-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	chunks := SplitText(text, d.maxChars)
	segments := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		file := path.Join(dir, strconv.Itoa(i)+".mp3")
		_, err := d.speak.ToSave(ctx, file, chunk, options)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		segment, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}

	if len(segments) == 1 {
		return segments[0], nil
	}
	return audio.Join(segments)
}
