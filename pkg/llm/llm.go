// Package llm is the client for the outbound generative-language API. The
// model's output is treated as plain text; no schema is enforced on it.
package llm

import "context"

// Turn is one prior exchange in the assistant conversation, as the browser
// stores it: a display sender name and the message text.
type Turn struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Client produces an assistant reply for a passenger prompt given the
// preceding conversation.
type Client interface {
	Reply(ctx context.Context, prompt string, history []Turn) (string, error)
}
