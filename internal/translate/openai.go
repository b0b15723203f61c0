package translate

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"astrasub/internal/language"
	"astrasub/internal/services"
)

// Config captures runtime settings for the chat-backed translator.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Temperature defaults to a low value; translation should be literal.
	Temperature float32
	// Timeout bounds a single batch request. Zero means no limit beyond
	// the caller's context.
	Timeout time.Duration
}

const DefaultModel = "gpt-4o-mini"

// OpenAI translates cue text in batches through a chat completion endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAI builds a translator from config.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), model: model, temperature: temperature}
}

// TranslateBatch sends the texts as numbered lines and re-aligns the reply by
// line number. Indexes the model skipped fall back to the original text so
// the result is always index-aligned with the input.
func (o *OpenAI) TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	target := language.DisplayName(targetLang)
	source := language.DisplayName(sourceLang)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate the following %s subtitle lines to %s.\n", source, target)
	prompt.WriteString("Reply with one line per input, keeping the same numbering, with no extra commentary.\n\n")
	for i, text := range texts {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, strings.ReplaceAll(text, "\n", " "))
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a subtitle translator. Preserve meaning, tone, and brevity suitable for on-screen display.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.String(),
			},
		},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTranslation, "translate", "batch", fmt.Sprintf("request for %s failed", targetLang), err)
	}
	if len(resp.Choices) == 0 {
		return nil, services.Wrap(services.ErrTranslation, "translate", "batch", fmt.Sprintf("no choices returned for %s", targetLang), nil)
	}

	return alignNumberedLines(resp.Choices[0].Message.Content, texts), nil
}

// alignNumberedLines parses "N. text" reply lines into an index-aligned
// slice, falling back to the source text for any index the reply omitted.
func alignNumberedLines(reply string, texts []string) []string {
	out := make([]string, len(texts))
	copy(out, texts)

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		numberPart, rest, found := strings.Cut(line, ".")
		if !found {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(numberPart))
		if err != nil || index < 1 || index > len(texts) {
			continue
		}
		translated := strings.TrimSpace(rest)
		if translated != "" {
			out[index-1] = translated
		}
	}
	return out
}
