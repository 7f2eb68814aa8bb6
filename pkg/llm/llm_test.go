package llm

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		msgs := buildMessages("I feel dizzy", nil)
		require.Len(t, msgs, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
		assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
		assert.Equal(t, "I feel dizzy", msgs[1].Content)
	})

	t.Run("history folded into roles", func(t *testing.T) {
		history := []Turn{
			{Sender: "You", Message: "My chest hurts"},
			{Sender: "Dr. AI Assistant", Message: "How severe is the pain, 1-10?"},
			{Sender: "System", Message: "connection restored"},
		}
		msgs := buildMessages("About a 7", history)
		require.Len(t, msgs, 4) // system + 2 kept turns + current prompt
		assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
		assert.Equal(t, "My chest hurts", msgs[1].Content)
		assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
		assert.Equal(t, "About a 7", msgs[3].Content)
	})
}
