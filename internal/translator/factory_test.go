package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tr, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, BackendGoogle, tr.BackendName(), "google is the default backend")

	tr, err = New(Options{Backend: "ECHO"})
	require.NoError(t, err)
	assert.Equal(t, BackendEcho, tr.BackendName())

	tr, err = New(Options{Backend: BackendLLM, Separator: "------", LLM: llm.Config{
		APIKey:      "k",
		APIURL:      "https://api.example.com/v1",
		Model:       "m",
		MaxTokens:   100,
		Temperature: 0.2,
		Timeout:     5,
	}})
	require.NoError(t, err)
	assert.Equal(t, BackendLLM, tr.BackendName())

	_, err = New(Options{Backend: BackendLLM})
	require.Error(t, err, "llm backend needs a valid client config")

	_, err = New(Options{Backend: "deepl"})
	require.Error(t, err)
}
