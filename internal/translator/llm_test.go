package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
)

func TestLLMBackend_Translate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[0].Content, "from English to Portuguese")
		assert.Contains(t, req.Messages[0].Content, "Copy every ------ line exactly")
		assert.Equal(t, "Hello\n------\n", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(llm.ChatResponse{
			Choices: []llm.Choice{{Message: llm.Message{Role: "assistant", Content: "```\nOlá\n------\n```"}, FinishReason: "stop"}},
		})
	}))
	defer server.Close()

	client, err := llm.NewClient(&llm.Config{
		APIKey:    "k",
		APIURL:    server.URL,
		Model:     "m",
		MaxTokens: 100,
		Timeout:   5,
	})
	require.NoError(t, err)

	got, err := NewLLMBackend(client, "------").Translate(context.Background(), "Hello\n------\n", "en", "pt")
	require.NoError(t, err)
	assert.Equal(t, "Olá\n------\n", got)
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\n", stripCodeFence("```text\na\n```"))
	assert.Equal(t, "plain", stripCodeFence("plain"))
}

func TestLanguageName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Portuguese", languageName("pt"))
	assert.Equal(t, "the detected language", languageName("auto"))
	assert.Equal(t, "xx-not-a-tag!", languageName("xx-not-a-tag!"))
}
