package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5h1v4n1-2025/daruma/pkg/audio"
	"github.com/5h1v4n1-2025/daruma/pkg/tts/handlers"
)

func mp3Frame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	return frame
}

func elevenLabsStub(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["text"])

		w.Write(mp3Frame())
	}))
}

func newTestElevenLabs(baseURL string, maxChars int) *ElevenLabs {
	client := handlers.NewClient("test-key")
	client.BaseURL = baseURL
	client.RetryDelay = time.Millisecond
	return NewElevenLabs(client, "eleven_monolingual_v1", maxChars)
}

func TestElevenLabsSynthesizeSingleChunk(t *testing.T) {
	var calls int64
	server := elevenLabsStub(t, &calls)
	defer server.Close()

	synth := newTestElevenLabs(server.URL, 2000)
	data, err := synth.Synthesize(context.Background(), "A short line.", "voice-1")
	require.NoError(t, err)

	frames, _ := audio.Stats(data)
	assert.Equal(t, 1, frames)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestElevenLabsSynthesizeSplitsLongText(t *testing.T) {
	var calls int64
	server := elevenLabsStub(t, &calls)
	defer server.Close()

	synth := newTestElevenLabs(server.URL, 30)
	text := "First sentence here. Second sentence here. Third sentence here."
	data, err := synth.Synthesize(context.Background(), text, "voice-1")
	require.NoError(t, err)

	wantChunks := len(SplitText(text, 30))
	require.Greater(t, wantChunks, 1)
	assert.Equal(t, int64(wantChunks), atomic.LoadInt64(&calls))

	frames, _ := audio.Stats(data)
	assert.Equal(t, wantChunks, frames)
}

func TestElevenLabsSynthesizeRejectsEmptyText(t *testing.T) {
	synth := newTestElevenLabs("http://127.0.0.1:0", 2000)
	_, err := synth.Synthesize(context.Background(), "   ", "voice-1")
	require.Error(t, err)
}

func TestElevenLabsFormat(t *testing.T) {
	synth := newTestElevenLabs("http://127.0.0.1:0", 2000)
	assert.Equal(t, audio.FormatMP3, synth.Format())
}
