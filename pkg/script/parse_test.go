package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	raw := `[
		{"speaker": "Narrator", "text": "The door creaked open.", "traits": {"style": "narrating"}},
		{"speaker": "Alice", "text": "Hello?", "traits": {"gender": "female", "age": "young"}},
		{"speaker": "Bob", "text": "Who goes there!", "traits": {"gender": "male"}}
	]`

	utterances, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, utterances, 3)

	assert.Equal(t, 0, utterances[0].Index)
	assert.Equal(t, "Narrator", utterances[0].Speaker)
	assert.Equal(t, 1, utterances[1].Index)
	assert.Equal(t, "Alice", utterances[1].Speaker)
	assert.Equal(t, "female", utterances[1].Traits["gender"])
	assert.Equal(t, 2, utterances[2].Index)
}

func TestParseStripsMarkdownFences(t *testing.T) {
	raw := "Here is the script you asked for:\n```json\n" +
		`[{"speaker": "Alice", "text": "Hi."}]` +
		"\n```\nLet me know if you need anything else."

	utterances, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, utterances, 1)
	assert.Equal(t, "Alice", utterances[0].Speaker)
	assert.Equal(t, "Hi.", utterances[0].Text)
}

func TestParseDropsEmptyTextAndReindexes(t *testing.T) {
	raw := `[
		{"speaker": "Alice", "text": "First."},
		{"speaker": "Bob", "text": "   "},
		{"speaker": "Alice", "text": "Second."}
	]`

	utterances, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, utterances, 2)
	assert.Equal(t, 0, utterances[0].Index)
	assert.Equal(t, "First.", utterances[0].Text)
	assert.Equal(t, 1, utterances[1].Index)
	assert.Equal(t, "Second.", utterances[1].Text)
}

func TestParseMissingSpeakerBecomesNarrator(t *testing.T) {
	raw := `[{"speaker": "", "text": "It was a dark night."}]`

	utterances, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, utterances, 1)
	assert.Equal(t, NarratorSpeaker, utterances[0].Speaker)
}

func TestParseNormalizesTraitKeys(t *testing.T) {
	raw := `[{"speaker": "Alice", "text": "Hi.", "traits": {"Gender": "Female", "tone": "", " Age ": "young"}}]`

	utterances, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Traits{"gender": "Female", "age": "young"}, utterances[0].Traits)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"prose only":   "I could not process that text, sorry.",
		"broken json":  `[{"speaker": "Alice", "text": }]`,
		"no utterance": `[{"speaker": "Alice", "text": ""}]`,
		"wrong shape":  `{"speaker": "Alice", "text": "Hi."}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestSpeakersFirstAppearanceOrder(t *testing.T) {
	utterances := Utterances{
		{Index: 0, Speaker: "Narrator", Text: "a"},
		{Index: 1, Speaker: "Alice", Text: "b"},
		{Index: 2, Speaker: "Narrator", Text: "c"},
		{Index: 3, Speaker: "Bob", Text: "d"},
		{Index: 4, Speaker: "Alice", Text: "e"},
	}

	assert.Equal(t, []string{"Narrator", "Alice", "Bob"}, utterances.Speakers())
}

func TestTraitsForMergesWithoutOverwriting(t *testing.T) {
	utterances := Utterances{
		{Index: 0, Speaker: "Alice", Text: "a", Traits: Traits{"gender": "female"}},
		{Index: 1, Speaker: "Alice", Text: "b", Traits: Traits{"gender": "male", "age": "young"}},
		{Index: 2, Speaker: "Bob", Text: "c", Traits: Traits{"gender": "male"}},
	}

	merged := utterances.TraitsFor("Alice")
	assert.Equal(t, Traits{"gender": "female", "age": "young"}, merged)
}

func TestNarratorFallback(t *testing.T) {
	utterances := NarratorFallback("  Once upon a time.  ")
	require.Len(t, utterances, 1)
	assert.Equal(t, NarratorSpeaker, utterances[0].Speaker)
	assert.Equal(t, "Once upon a time.", utterances[0].Text)
	assert.Equal(t, 0, utterances[0].Index)
}
