package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"healthontrack/pkg/errors"
)

// OpenAIConfig points the client at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty means the default OpenAI endpoint
	Model   string
}

// OpenAIClient implements Client over the chat-completions API.
type OpenAIClient struct {
	api   *openai.Client
	model string
}

// NewOpenAIClient builds the client. The API key is required; a missing key
// is reported on the first call rather than at startup so the rest of the
// service stays usable.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

// Reply sends the system prompt, the prior turns and the current message and
// returns the model's text. Cancellation and deadlines come from ctx.
func (c *OpenAIClient) Reply(ctx context.Context, prompt string, history []Turn) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(prompt, history),
		Temperature: 0.7,
		TopP:        0.8,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", errors.Wrap(err, "assistant request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("assistant returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages folds the browser-side conversation into chat roles. The
// client labels the passenger's turns "You" and the assistant's with the
// "Dr. AI" persona name; anything else (system notices) is skipped.
func buildMessages(prompt string, history []Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, t := range history {
		switch {
		case t.Sender == "You":
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: t.Message,
			})
		case strings.Contains(t.Sender, "Dr. AI"):
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: t.Message,
			})
		}
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return msgs
}
