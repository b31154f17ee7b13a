package audio

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// FormatMP3 is the only format the synthesizers request, so assembly
// never has to transcode.
const FormatMP3 = "mp3"

// ErrFormatMismatch means clips arrived in differing formats. That is
// an internal invariant violation: the synthesizer is responsible for
// requesting one consistent output format.
var ErrFormatMismatch = errors.New("audio clips have mismatched formats")

// ErrNoClips means assembly was asked to run on an empty list.
var ErrNoClips = errors.New("no audio clips to assemble")

// Clip is one synthesized audio segment. Index mirrors the owning
// utterance's sequence index.
type Clip struct {
	Index  int
	Format string
	Data   []byte
}

// Assembled is the terminal artifact of a request.
type Assembled struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
	Frames   int
}

// Assemble concatenates clips into one playable stream, in sequence
// index order. Concatenation is container-aware: mp3 frames are copied
// frame by frame and ID3 tags between segments are skipped, so the
// output is a single valid stream rather than a naive byte splice.
func Assemble(clips []Clip) (*Assembled, error) {
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	for _, clip := range clips {
		if clip.Format != FormatMP3 {
			return nil, fmt.Errorf("%w: clip %d is %q, want %q",
				ErrFormatMismatch, clip.Index, clip.Format, FormatMP3)
		}
		if len(clip.Data) == 0 {
			return nil, fmt.Errorf("clip %d has no audio data", clip.Index)
		}
	}

	ordered := make([]Clip, len(clips))
	copy(ordered, clips)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	segments := make([][]byte, len(ordered))
	for i, clip := range ordered {
		segments[i] = clip.Data
	}

	joined, err := Join(segments)
	if err != nil {
		return nil, fmt.Errorf("failed to join audio clips: %w", err)
	}

	frames, duration := Stats(joined)

	return &Assembled{
		Data:     joined,
		MIMEType: "audio/mpeg",
		Duration: duration,
		Frames:   frames,
	}, nil
}
