package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dmulholland/mp3lib"
	"github.com/hyacinthus/mp3join"
)

// Join merges mp3 segments into one stream.
func Join(segments [][]byte) ([]byte, error) {
	joiner := mp3join.New()

	for i, segment := range segments {
		if err := joiner.Append(bytes.NewReader(segment)); err != nil {
			return nil, fmt.Errorf("appending segment %d: %w", i, err)
		}
	}

	dest := joiner.Reader()
	joined, err := io.ReadAll(dest)
	if err != nil {
		return nil, err
	}
	return joined, nil
}

// Stats walks an mp3 stream and returns its frame count and playback
// duration, summed per frame.
func Stats(data []byte) (int, time.Duration) {
	reader := bytes.NewReader(data)
	frames := 0
	var duration time.Duration

	for {
		frame := mp3lib.NextFrame(reader)
		if frame == nil {
			break
		}
		frames++
		if frame.SamplingRate > 0 {
			seconds := float64(frame.SampleCount) / float64(frame.SamplingRate)
			duration += time.Duration(seconds * float64(time.Second))
		}
	}

	return frames, duration
}
