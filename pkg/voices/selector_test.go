package voices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5h1v4n1-2025/daruma/pkg/script"
)

func testCatalog() Voices {
	return Voices{
		{ID: "narrator-voice", Name: "Plain", Labels: map[string]string{"gender": "female", "style": "narrating"}},
		{ID: "young-woman", Name: "Ada", Labels: map[string]string{"gender": "female", "age": "young", "accent": "american"}},
		{ID: "old-man", Name: "Bert", Labels: map[string]string{"gender": "male", "age": "elderly", "accent": "british"}},
	}
}

func TestAssignNarratorAlwaysGetsNarratorVoice(t *testing.T) {
	registry := NewRegistry(testCatalog(), "narrator-voice")

	utterances := script.Utterances{
		{Index: 0, Speaker: script.NarratorSpeaker, Text: "a", Traits: script.Traits{"gender": "male", "age": "elderly"}},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "narrator-voice", assignment[script.NarratorSpeaker])
}

func TestAssignMatchesOnTraits(t *testing.T) {
	registry := NewRegistry(testCatalog(), "narrator-voice")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Alice", Text: "a", Traits: script.Traits{"gender": "female", "age": "young"}},
		{Index: 1, Speaker: "Grandpa", Text: "b", Traits: script.Traits{"gender": "male", "age": "elderly", "accent": "british"}},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "young-woman", assignment["Alice"])
	assert.Equal(t, "old-man", assignment["Grandpa"])
}

func TestAssignSameSpeakerOneVoice(t *testing.T) {
	registry := NewRegistry(testCatalog(), "narrator-voice")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Alice", Text: "a", Traits: script.Traits{"gender": "female"}},
		{Index: 1, Speaker: "Bob", Text: "b"},
		{Index: 2, Speaker: "Alice", Text: "c", Traits: script.Traits{"age": "young"}},
	}

	assignment := registry.Assign(utterances)
	require.Contains(t, assignment, "Alice")
	assert.Len(t, assignment, 2)
}

func TestAssignNoTraitOverlapFallsBackToNarrator(t *testing.T) {
	registry := NewRegistry(testCatalog(), "narrator-voice")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Robot", Text: "beep", Traits: script.Traits{"tone": "metallic"}},
		{Index: 1, Speaker: "Ghost", Text: "boo"},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "narrator-voice", assignment["Robot"])
	assert.Equal(t, "narrator-voice", assignment["Ghost"])
}

func TestAssignIsDeterministic(t *testing.T) {
	registry := NewRegistry(testCatalog(), "narrator-voice")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Alice", Text: "a", Traits: script.Traits{"gender": "female", "age": "young"}},
		{Index: 1, Speaker: "Grandpa", Text: "b", Traits: script.Traits{"gender": "male"}},
	}

	first := registry.Assign(utterances)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, registry.Assign(utterances))
	}
}

func TestAssignTieKeepsFirstCatalogEntry(t *testing.T) {
	catalog := Voices{
		{ID: "first", Labels: map[string]string{"gender": "male"}},
		{ID: "second", Labels: map[string]string{"gender": "male"}},
	}
	registry := NewRegistry(catalog, "first")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Bob", Text: "a", Traits: script.Traits{"gender": "male"}},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "first", assignment["Bob"])
}

func TestMatchScoreIsCaseInsensitive(t *testing.T) {
	score := matchScore(
		script.Traits{"gender": "Female", "accent": "BRITISH"},
		map[string]string{"gender": "female", "accent": "british"},
	)
	assert.Equal(t, 2, score)
}

func TestNewRegistryDefaults(t *testing.T) {
	registry := NewRegistry(nil, "")
	require.NotEmpty(t, registry.Catalog())
	assert.Equal(t, registry.Catalog()[0].ID, registry.NarratorID())
}

func TestCatalogForPerProvider(t *testing.T) {
	cases := map[string]struct {
		provider string
		wantID   string
	}{
		"elevenlabs": {provider: "elevenlabs", wantID: "21m00Tcm4TlvDq8ikWAM"},
		"openai":     {provider: "openai", wantID: "shimmer"},
		"deepgram":   {provider: "deepgram", wantID: "aura-hera-en"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			catalog := CatalogFor(tc.provider)
			require.NotEmpty(t, catalog)
			assert.True(t, catalog.Contains(tc.wantID))
			for _, voice := range catalog {
				assert.NotEmpty(t, voice.ID)
				assert.NotEmpty(t, voice.Labels["gender"])
			}
		})
	}
}

func TestAssignWithOpenAICatalog(t *testing.T) {
	catalog := CatalogFor("openai")
	registry := NewRegistry(catalog, "shimmer")

	utterances := script.Utterances{
		{Index: 0, Speaker: script.NarratorSpeaker, Text: "a"},
		{Index: 1, Speaker: "Alice", Text: "b", Traits: script.Traits{"gender": "female", "age": "young"}},
		{Index: 2, Speaker: "Bob", Text: "c", Traits: script.Traits{"gender": "male", "accent": "british"}},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "shimmer", assignment[script.NarratorSpeaker])
	assert.Equal(t, "nova", assignment["Alice"])
	assert.Equal(t, "fable", assignment["Bob"])
	for _, voiceID := range assignment {
		assert.True(t, catalog.Contains(voiceID))
	}
}

func TestAssignWithDeepgramCatalogStaysInCatalog(t *testing.T) {
	catalog := CatalogFor("deepgram")
	registry := NewRegistry(catalog, "aura-hera-en")

	utterances := script.Utterances{
		{Index: 0, Speaker: "Grandpa", Text: "a", Traits: script.Traits{"gender": "male", "accent": "irish"}},
		{Index: 1, Speaker: "Robot", Text: "b", Traits: script.Traits{"tone": "metallic"}},
	}

	assignment := registry.Assign(utterances)
	assert.Equal(t, "aura-angus-en", assignment["Grandpa"])
	assert.Equal(t, "aura-hera-en", assignment["Robot"])
}
