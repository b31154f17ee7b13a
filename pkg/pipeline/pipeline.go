package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/5h1v4n1-2025/daruma/pkg/ai"
	"github.com/5h1v4n1-2025/daruma/pkg/audio"
	"github.com/5h1v4n1-2025/daruma/pkg/script"
	"github.com/5h1v4n1-2025/daruma/pkg/tts"
)

// VoicePicker assigns a voice to every speaker in a script.
type VoicePicker interface {
	Assign(utterances script.Utterances) map[string]string
	NarratorID() string
}

// Pipeline drives one request from raw text to an assembled audio
// stream: extract, assign voices, synthesize, assemble.
type Pipeline struct {
	extractor   Extractor
	picker      VoicePicker
	synth       tts.Synthesizer
	maxParallel int
	timeout     time.Duration
}

func New(extractor Extractor, picker VoicePicker, synth tts.Synthesizer, maxParallel int, timeout time.Duration) *Pipeline {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Pipeline{
		extractor:   extractor,
		picker:      picker,
		synth:       synth,
		maxParallel: maxParallel,
		timeout:     timeout,
	}
}

// Result is what a finished request hands back to the transport layer.
type Result struct {
	RequestID  string
	Utterances script.Utterances
	Audio      *audio.Assembled
}

// Run executes the full request. Utterances synthesize concurrently up
// to maxParallel, and the clips are reassembled in script order no
// matter which finishes first. A per-utterance synthesis failure gets
// one retry on the narrator voice before the request fails.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	requestID := uuid.New().String()
	started := time.Now()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log.Printf("[%s] stage=%s", requestID, StageReceived)

	log.Printf("[%s] stage=%s", requestID, StageExtracting)
	utterances, err := p.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, script.ErrMalformed) {
			// The model answered but not in a usable shape. Speak the
			// whole input as narration instead of failing the request.
			log.Printf("[%s] extraction unusable, narrating whole input: %v", requestID, err)
			utterances = script.NarratorFallback(text)
		} else {
			return nil, p.fail(requestID, StageExtracting, -1, err)
		}
	}
	if len(utterances) == 0 {
		utterances = script.NarratorFallback(text)
	}

	log.Printf("[%s] stage=%s speakers=%d", requestID, StageAssigningVoices, len(utterances.Speakers()))
	assignments := p.picker.Assign(utterances)

	log.Printf("[%s] stage=%s utterances=%d parallel=%d", requestID, StageSynthesizing, len(utterances), p.maxParallel)
	clips, err := p.synthesizeAll(ctx, utterances, assignments)
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			return nil, p.fail(requestID, stageErr.Stage, stageErr.Utterance, stageErr.Err)
		}
		return nil, p.fail(requestID, StageSynthesizing, -1, err)
	}

	log.Printf("[%s] stage=%s clips=%d", requestID, StageAssembling, len(clips))
	assembled, err := audio.Assemble(clips)
	if err != nil {
		return nil, p.fail(requestID, StageAssembling, -1, err)
	}

	log.Printf("[%s] stage=%s duration=%s elapsed=%s",
		requestID, StageDone, assembled.Duration.Round(time.Millisecond), time.Since(started).Round(time.Millisecond))

	return &Result{
		RequestID:  requestID,
		Utterances: utterances,
		Audio:      assembled,
	}, nil
}

// synthesizeAll runs bounded-parallel synthesis. Every utterance gets a
// clip slot keyed by its index so completion order never reorders
// playback.
func (p *Pipeline) synthesizeAll(ctx context.Context, utterances script.Utterances, assignments map[string]string) ([]audio.Clip, error) {
	clips := make([]audio.Clip, len(utterances))
	failures := make([]error, len(utterances))

	sem := make(chan struct{}, p.maxParallel)
	var wg sync.WaitGroup

	for i, utt := range utterances {
		wg.Add(1)
		go func(i int, utt script.Utterance) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				failures[i] = ctx.Err()
				return
			}

			voiceID := assignments[utt.Speaker]
			if voiceID == "" {
				voiceID = p.picker.NarratorID()
			}

			data, err := p.synth.Synthesize(ctx, utt.Text, voiceID)
			if err != nil && ctx.Err() == nil && voiceID != p.picker.NarratorID() && upstreamFailure(err) {
				// The assigned voice may be the problem (revoked or
				// unknown upstream). Retry once on the narrator voice.
				// Deterministic failures are not retried.
				log.Printf("Voice %s failed, retrying with narrator: %s: %v", voiceID, utt.ToJson(), err)
				data, err = p.synth.Synthesize(ctx, utt.Text, p.picker.NarratorID())
			}
			if err != nil {
				failures[i] = err
				return
			}

			clips[i] = audio.Clip{
				Index:  utt.Index,
				Format: p.synth.Format(),
				Data:   data,
			}
		}(i, utt)
	}

	wg.Wait()

	for i, err := range failures {
		if err != nil {
			return nil, &StageError{Stage: StageSynthesizing, Utterance: utterances[i].Index, Err: err}
		}
	}

	return clips, nil
}

// fail logs and classifies a stage failure into the error kinds the
// transport layer maps to HTTP statuses.
func (p *Pipeline) fail(requestID string, stage Stage, utterance int, err error) error {
	classified := classify(err)
	wrapped := &StageError{Stage: stage, Utterance: utterance, Err: classified}
	log.Printf("[%s] stage=%s failed: %v", requestID, stage, wrapped)
	return wrapped
}

// upstreamFailure reports whether err classifies as an upstream
// service failure. Only those earn the narrator retry; invalid input,
// timeouts and cancellations fail the same way on any voice.
func upstreamFailure(err error) bool {
	return errors.Is(classify(err), ErrUpstream)
}

func classify(err error) error {
	var tooLarge *ai.ErrPromptTooLarge
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUpstream),
		errors.Is(err, ErrTimeout):
		return err
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, audio.ErrFormatMismatch), errors.Is(err, audio.ErrNoClips):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
