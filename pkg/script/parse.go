package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed means the model reply could not be decomposed into at
// least one valid utterance. Callers degrade to NarratorFallback.
var ErrMalformed = errors.New("script response is malformed")

type rawEntry struct {
	Speaker string            `json:"speaker"`
	Text    string            `json:"text"`
	Traits  map[string]string `json:"traits"`
}

// Parse decodes a model reply into ordered utterances. The reply is
// expected to be a JSON array of {speaker, text, traits} records but
// models wrap it in markdown fences and pad it with prose often enough
// that both are stripped first. Entries with empty text are dropped,
// entries with no speaker are attributed to the narrator. Utterances
// are reindexed sequentially after filtering.
func Parse(raw string) (Utterances, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	var entries []rawEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	utterances := make(Utterances, 0, len(entries))
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		speaker := strings.TrimSpace(entry.Speaker)
		if speaker == "" {
			speaker = NarratorSpeaker
		}
		traits := make(Traits)
		for k, v := range entry.Traits {
			k = strings.ToLower(strings.TrimSpace(k))
			v = strings.TrimSpace(v)
			if k != "" && v != "" {
				traits[k] = v
			}
		}
		utterances = append(utterances, Utterance{
			Index:   len(utterances),
			Speaker: speaker,
			Text:    text,
			Traits:  traits,
		})
	}

	if len(utterances) == 0 {
		return nil, fmt.Errorf("%w: no valid utterances", ErrMalformed)
	}
	return utterances, nil
}

// StripFences removes markdown code fences and any prose around the
// outermost JSON array.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	// Models sometimes preface the array with a sentence. Cut down to
	// the outermost brackets when both are present.
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
