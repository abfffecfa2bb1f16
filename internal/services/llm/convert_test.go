package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sitechat/internal/interfaces"
)

func TestConvertMessagesToClaude(t *testing.T) {
	t.Run("system message extracted", func(t *testing.T) {
		messages := []interfaces.Message{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
			{Role: "user", Content: "again"},
		}

		claudeMessages, systemText, err := convertMessagesToClaude(messages)
		require.NoError(t, err)

		assert.Equal(t, "be helpful", systemText)
		assert.Len(t, claudeMessages, 3)
	})

	t.Run("first system message wins", func(t *testing.T) {
		messages := []interfaces.Message{
			{Role: "system", Content: "first"},
			{Role: "system", Content: "second"},
			{Role: "user", Content: "hello"},
		}

		_, systemText, err := convertMessagesToClaude(messages)
		require.NoError(t, err)
		assert.Equal(t, "first", systemText)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, _, err := convertMessagesToClaude(nil)
		assert.Error(t, err)
	})

	t.Run("requires a user message", func(t *testing.T) {
		_, _, err := convertMessagesToClaude([]interfaces.Message{
			{Role: "system", Content: "only system"},
		})
		assert.Error(t, err)
	})
}

func TestConvertMessagesToGemini(t *testing.T) {
	t.Run("roles mapped", func(t *testing.T) {
		messages := []interfaces.Message{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
		}

		contents, systemText, err := convertMessagesToGemini(messages)
		require.NoError(t, err)

		assert.Equal(t, "be helpful", systemText)
		require.Len(t, contents, 2)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "model", contents[1].Role)
	})

	t.Run("unknown roles default to user", func(t *testing.T) {
		contents, _, err := convertMessagesToGemini([]interfaces.Message{
			{Role: "user", Content: "hello"},
			{Role: "tool", Content: "output"},
		})
		require.NoError(t, err)
		require.Len(t, contents, 2)
		assert.Equal(t, "user", contents[1].Role)
	})

	t.Run("requires a user message", func(t *testing.T) {
		_, _, err := convertMessagesToGemini([]interfaces.Message{
			{Role: "assistant", Content: "hi"},
		})
		assert.Error(t, err)
	})
}
