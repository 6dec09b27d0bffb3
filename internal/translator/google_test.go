package translator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBackend_Translate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "gtx", r.PostForm.Get("client"))
		assert.Equal(t, "en", r.PostForm.Get("sl"))
		assert.Equal(t, "pt", r.PostForm.Get("tl"))
		assert.Equal(t, "Hello\n------\nWorld\n------\n", r.PostForm.Get("q"))

		_, _ = w.Write([]byte(`[[["Olá\n","Hello\n",null,null,10],["------\n","------\n",null,null,3],["Mundo\n------\n","World\n------\n",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	backend := NewGoogleBackend(GoogleConfig{Endpoint: server.URL})
	got, err := backend.Translate(context.Background(), "Hello\n------\nWorld\n------\n", "en", "pt")
	require.NoError(t, err)
	assert.Equal(t, "Olá\n------\nMundo\n------\n", got)
}

func TestGoogleBackend_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewGoogleBackend(GoogleConfig{Endpoint: server.URL}).Translate(context.Background(), "Hello", "en", "pt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGoogleBackend_BlankTextSkipsRequest(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	got, err := NewGoogleBackend(GoogleConfig{Endpoint: server.URL}).Translate(context.Background(), " \n", "en", "pt")
	require.NoError(t, err)
	assert.Equal(t, " \n", got)
	assert.False(t, called)
}

func TestParseGoogleResponse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parseGoogleResponse([]byte(`{"error":"nope"}`))
	require.Error(t, err)

	_, err = parseGoogleResponse([]byte(`[]`))
	require.Error(t, err)
}

func TestGoogleLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "auto", googleLanguage("und"))
	assert.Equal(t, "zh-CN", googleLanguage("zh-Hans"))
	assert.Equal(t, "pt", googleLanguage("pt"))
}
