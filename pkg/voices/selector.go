package voices

import (
	"strings"

	"github.com/5h1v4n1-2025/daruma/pkg/script"
)

// Registry resolves speakers to voices. Catalog order matters: when two
// voices score the same for a speaker, the one listed first wins, so
// assignment stays deterministic between calls.
type Registry struct {
	catalog    Voices
	narratorID string
}

func NewRegistry(catalog Voices, narratorID string) *Registry {
	if len(catalog) == 0 {
		catalog = GetAvailableVoices()
	}
	if narratorID == "" {
		narratorID = catalog[0].ID
	}
	return &Registry{catalog: catalog, narratorID: narratorID}
}

// Catalog returns the voices the registry selects from.
func (r *Registry) Catalog() Voices {
	return r.catalog
}

// NarratorID returns the fallback voice identifier.
func (r *Registry) NarratorID() string {
	return r.narratorID
}

// Assign maps every distinct speaker in the utterance list to exactly
// one voice identifier. Speakers with no trait overlap against any
// catalog entry get the narrator voice. Never fails: a poor pick is a
// quality problem, not a correctness one.
func (r *Registry) Assign(utterances script.Utterances) map[string]string {
	assignment := make(map[string]string)
	for _, speaker := range utterances.Speakers() {
		if speaker == script.NarratorSpeaker {
			assignment[speaker] = r.narratorID
			continue
		}
		assignment[speaker] = r.bestMatch(utterances.TraitsFor(speaker))
	}
	return assignment
}

func (r *Registry) bestMatch(traits script.Traits) string {
	bestID := r.narratorID
	bestScore := 0

	for _, voice := range r.catalog {
		score := matchScore(traits, voice.Labels)
		// Strictly greater keeps the first catalog entry on ties.
		if score > bestScore {
			bestID = voice.ID
			bestScore = score
		}
	}
	return bestID
}

func matchScore(traits script.Traits, labels map[string]string) int {
	score := 0
	for name, want := range traits {
		have, ok := labels[name]
		if !ok {
			continue
		}
		if containsFold(have, want) || containsFold(want, have) {
			score++
		}
	}
	return score
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
