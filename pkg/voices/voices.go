package voices

import (
	"github.com/5h1v4n1-2025/daruma/pkg/utils"
)

// Voice is one synthetic voice offered by the speech service. Labels
// carry the known traits (gender, age, accent, style) used to match
// characters to voices.
type Voice struct {
	ID     string            `json:"voice_id"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}

type Voices []Voice

func (v *Voice) ToJson() string {
	return utils.ToJsonStr(v)
}

// Contains reports whether a voice with the given id is in the catalog.
func (v Voices) Contains(id string) bool {
	for _, voice := range v {
		if voice.ID == id {
			return true
		}
	}
	return false
}

// CatalogFor returns the built-in catalog for a synthesis provider.
// Voice ids are provider-specific: ElevenLabs uses opaque ids, OpenAI
// uses voice names, Deepgram uses aura model names.
func CatalogFor(provider string) Voices {
	switch provider {
	case "openai":
		return GetOpenAIVoices()
	case "deepgram":
		return GetDeepgramVoices()
	default:
		return GetAvailableVoices()
	}
}

// GetAvailableVoices is the built-in catalog of ElevenLabs premade
// voices with their published labels. The registry can be refreshed
// from the live voice listing at startup; this set is the offline
// fallback and the one tests run against.
func GetAvailableVoices() Voices {
	return Voices{
		{
			ID:   "21m00Tcm4TlvDq8ikWAM",
			Name: "Rachel",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "pNInz6obpgDQGcFmaJgB",
			Name: "Adam",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "EXAVITQu4vr4xnSDxMaL",
			Name: "Bella",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "ErXwobaYiN019PkySvjV",
			Name: "Antoni",
			Labels: map[string]string{
				"gender": "male",
				"age":    "young",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "onwK4e9ZLuTAKqWW03F9",
			Name: "Daniel",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "british",
				"style":  "narrating",
			},
		},
		{
			ID:   "XB0fDUnXU5powFXDhCwa",
			Name: "Charlotte",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "british",
				"style":  "acting",
			},
		},
		{
			ID:   "ThT5KcBeYPX3keUQqHPh",
			Name: "Dorothy",
			Labels: map[string]string{
				"gender": "female",
				"age":    "elderly",
				"accent": "british",
				"style":  "narrating",
			},
		},
		{
			ID:   "VR6AewLTigWG4xSOukaG",
			Name: "Arnold",
			Labels: map[string]string{
				"gender": "male",
				"age":    "elderly",
				"accent": "american",
				"style":  "acting",
			},
		},
	}
}

// GetOpenAIVoices is the fixed OpenAI speech voice set. The voice name
// doubles as the id the API expects.
func GetOpenAIVoices() Voices {
	return Voices{
		{
			ID:   "shimmer",
			Name: "Shimmer",
			Labels: map[string]string{
				"gender": "female",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "nova",
			Name: "Nova",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "echo",
			Name: "Echo",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "fable",
			Name: "Fable",
			Labels: map[string]string{
				"gender": "male",
				"age":    "young",
				"accent": "british",
				"style":  "acting",
			},
		},
		{
			ID:   "onyx",
			Name: "Onyx",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "alloy",
			Name: "Alloy",
			Labels: map[string]string{
				"gender": "neutral",
				"age":    "young",
				"accent": "american",
				"style":  "narrating",
			},
		},
	}
}

// GetDeepgramVoices is the fixed Deepgram Aura voice set. The id is
// the aura model name passed straight through to the speak API.
func GetDeepgramVoices() Voices {
	return Voices{
		{
			ID:   "aura-hera-en",
			Name: "Hera",
			Labels: map[string]string{
				"gender": "female",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "aura-luna-en",
			Name: "Luna",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "aura-athena-en",
			Name: "Athena",
			Labels: map[string]string{
				"gender": "female",
				"age":    "middle-aged",
				"accent": "british",
				"style":  "narrating",
			},
		},
		{
			ID:   "aura-asteria-en",
			Name: "Asteria",
			Labels: map[string]string{
				"gender": "female",
				"age":    "young",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "aura-orion-en",
			Name: "Orion",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "american",
				"style":  "narrating",
			},
		},
		{
			ID:   "aura-arcas-en",
			Name: "Arcas",
			Labels: map[string]string{
				"gender": "male",
				"age":    "young",
				"accent": "american",
				"style":  "acting",
			},
		},
		{
			ID:   "aura-angus-en",
			Name: "Angus",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "irish",
				"style":  "acting",
			},
		},
		{
			ID:   "aura-helios-en",
			Name: "Helios",
			Labels: map[string]string{
				"gender": "male",
				"age":    "middle-aged",
				"accent": "british",
				"style":  "narrating",
			},
		},
	}
}
