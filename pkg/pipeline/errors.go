package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds the server maps to HTTP statuses. Everything else is an
// internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream service failure")
	ErrTimeout      = errors.New("request deadline exceeded")
)

// Stage names one step of the request state machine.
type Stage string

const (
	StageReceived        Stage = "Received"
	StageExtracting      Stage = "Extracting"
	StageAssigningVoices Stage = "AssigningVoices"
	StageSynthesizing    Stage = "Synthesizing"
	StageAssembling      Stage = "Assembling"
	StageDone            Stage = "Done"
)

// StageError reports where a request failed. Utterance is the failing
// utterance's sequence index, or -1 when the failure is not tied to
// one.
type StageError struct {
	Stage     Stage
	Utterance int
	Err       error
}

func (e *StageError) Error() string {
	if e.Utterance >= 0 {
		return fmt.Sprintf("stage %s, utterance %d: %v", e.Stage, e.Utterance, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
