package script

import (
	"strings"

	"github.com/5h1v4n1-2025/daruma/pkg/utils"
)

// NarratorSpeaker is the identity used for narration and for any line
// that could not be attributed to a character.
const NarratorSpeaker = "Narrator"

// Traits are free-form vocal hints inferred for a speaker, keyed by
// trait name (gender, age, accent, tone, style).
type Traits map[string]string

// Utterance is one attributed line of dialogue or narration. Index is
// 0-based and defines playback order.
type Utterance struct {
	Index   int    `json:"index"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Traits  Traits `json:"traits,omitempty"`
}

type Utterances []Utterance

func (u *Utterance) ToJson() string {
	return utils.ToJsonStr(u)
}

func (u *Utterances) ToJson() string {
	return utils.ToJsonStr(u)
}

// Speakers returns the distinct speaker identities in first-appearance
// order. A speaker talking on non-adjacent lines appears once.
func (u Utterances) Speakers() []string {
	seen := make(map[string]bool)
	speakers := make([]string, 0)
	for _, utt := range u {
		if !seen[utt.Speaker] {
			seen[utt.Speaker] = true
			speakers = append(speakers, utt.Speaker)
		}
	}
	return speakers
}

// TraitsFor merges the traits seen for one speaker across all of their
// utterances. Later lines fill gaps but never overwrite earlier values.
func (u Utterances) TraitsFor(speaker string) Traits {
	merged := make(Traits)
	for _, utt := range u {
		if utt.Speaker != speaker {
			continue
		}
		for k, v := range utt.Traits {
			if _, ok := merged[k]; !ok && v != "" {
				merged[k] = v
			}
		}
	}
	return merged
}

// NarratorFallback wraps the whole input into a single narrated
// utterance. Used when extraction yields nothing usable.
func NarratorFallback(text string) Utterances {
	return Utterances{
		{
			Index:   0,
			Speaker: NarratorSpeaker,
			Text:    strings.TrimSpace(text),
			Traits:  Traits{"style": "narrating"},
		},
	}
}
