package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/teilomillet/gollm"

	"github.com/5h1v4n1-2025/daruma/pkg/script"
)

// Options configure the extraction client.
type Options struct {
	Provider        string
	Model           string
	APIKey          string
	MaxPromptTokens int
}

// AI talks to the language model that segments input text into an
// attributed script.
type AI struct {
	client          gollm.LLM
	maxPromptTokens int
	encoder         *tiktoken.Tiktoken
}

func NewAI(opts Options) (*AI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("missing API key for provider %q", opts.Provider)
	}

	conn, err := gollm.NewLLM(
		gollm.SetProvider(opts.Provider),
		gollm.SetModel(opts.Model),
		gollm.SetAPIKey(opts.APIKey),
		gollm.SetMaxRetries(3),
		gollm.SetRetryDelay(time.Second*2),
		gollm.SetLogLevel(gollm.LogLevelInfo),
		gollm.SetMaxTokens(4096),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Token counting is advisory. cl100k_base is close enough for
	// budget checks across the providers we target.
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Printf("Token encoder unavailable, prompt budget checks disabled: %v", err)
		encoder = nil
	}

	return &AI{
		client:          conn,
		maxPromptTokens: opts.MaxPromptTokens,
		encoder:         encoder,
	}, nil
}

// FigureScript asks the model to segment text into an ordered list of
// spoken lines with speaker identities and vocal traits. Returns the
// raw model reply; parsing lives in pkg/script so it can be hardened
// and tested without network access.
func (a *AI) FigureScript(ctx context.Context, text string) (string, error) {
	example := script.Utterances{
		{Index: 0, Speaker: script.NarratorSpeaker, Text: "The door creaked open.", Traits: script.Traits{"style": "narrating"}},
		{Index: 1, Speaker: "Alice", Text: "Hello?", Traits: script.Traits{"gender": "female", "age": "young", "tone": "nervous"}},
	}

	templatePrompt := gollm.NewPromptTemplate(
		"ScriptExtractor",
		"Segment a text into attributed dialogue and narration lines.",
		"Segment the following text into an ordered list of spoken lines. "+
			"**This is the text you need to work with**:\n```\n{{.Text}}\n```\n\n"+
			"# Instructions:\n"+
			"- Every line of the text must end up in exactly one entry, in the original order. \n"+
			"- Dialogue belongs to the character speaking it. Everything else belongs to \"Narrator\". \n"+
			"- A character speaking on several non-adjacent lines keeps the same speaker name in each entry. \n"+
			"- For every speaker infer vocal traits where the text gives you anything to work with: "+
			"gender, age (young, middle-aged, elderly), accent, tone, style (narrating or acting). "+
			"Leave out traits you cannot infer. \n"+
			"- Do not invent, reword or drop any of the original text.",
		gollm.WithPromptOptions(
			gollm.WithContext("You are preparing a script so each line can be voiced by a matching synthetic voice."),
			gollm.WithOutput("JSON array of {\"speaker\": string, \"text\": string, \"traits\": {string: string}} objects. No other text should be present. Only JSON."),
			gollm.WithExamples(example.ToJson()),
		),
	)

	prompt, err := templatePrompt.Execute(map[string]interface{}{
		"Text": text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	if err := a.checkBudget(prompt.String()); err != nil {
		return "", err
	}

	response, err := a.client.Generate(ctx, prompt, gollm.WithJSONSchemaValidation())
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}

	return gollm.CleanResponse(response), nil
}

// ErrPromptTooLarge marks inputs whose prompt exceeds the configured
// token budget. The caller should reject the input, not truncate it.
type ErrPromptTooLarge struct {
	Tokens int
	Budget int
}

func (e *ErrPromptTooLarge) Error() string {
	return fmt.Sprintf("prompt is %d tokens, budget is %d", e.Tokens, e.Budget)
}

func (a *AI) checkBudget(prompt string) error {
	if a.encoder == nil || a.maxPromptTokens <= 0 {
		return nil
	}
	tokens := len(a.encoder.Encode(prompt, nil, nil))
	if tokens > a.maxPromptTokens {
		return &ErrPromptTooLarge{Tokens: tokens, Budget: a.maxPromptTokens}
	}
	return nil
}

// ProviderKeyName returns the conventional env var name holding the
// credential for a provider.
func ProviderKeyName(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}
