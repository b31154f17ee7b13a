package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/5h1v4n1-2025/daruma/pkg/script"
)

// Extractor turns raw input text into an attributed ordered script.
type Extractor interface {
	Extract(ctx context.Context, text string) (script.Utterances, error)
}

// ScriptModel is the slice of the AI client extraction needs. Narrow
// on purpose so tests can feed canned replies without network access.
type ScriptModel interface {
	FigureScript(ctx context.Context, text string) (string, error)
}

// ScriptExtractor extracts utterances through the language model, with
// a per-key singleflight cache so identical submissions share one
// upstream call.
type ScriptExtractor struct {
	model   ScriptModel
	cache   *script.Cache
	timeout time.Duration
}

func NewScriptExtractor(model ScriptModel, cache *script.Cache, timeout time.Duration) *ScriptExtractor {
	if cache == nil {
		cache = script.NewCache(0)
	}
	return &ScriptExtractor{
		model:   model,
		cache:   cache,
		timeout: timeout,
	}
}

// Extract validates the input, asks the model for a script and parses
// the reply. Empty input fails before any upstream call is made. Parse
// failures surface as script.ErrMalformed so the caller can degrade to
// the narrator fallback.
func (e *ScriptExtractor) Extract(ctx context.Context, text string) (script.Utterances, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}

	return e.cache.Get(ctx, text, func(ctx context.Context) (script.Utterances, error) {
		callCtx := ctx
		if e.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		raw, err := e.model.FigureScript(callCtx, text)
		if err != nil {
			// The per-call deadline tripping while the request as a
			// whole still has time means the model is slow, which is
			// an upstream failure rather than a client timeout.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w: language model timed out: %v", ErrUpstream, err)
			}
			return nil, err
		}
		return script.Parse(raw)
	})
}
