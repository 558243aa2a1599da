package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func TestOpenAIEmbedder_Embed_WhenServerRespondsOutOfOrder_ThenReordersByIndex(t *testing.T) {
	// Arrange
	var gotBody map[string]any
	client := newEmbeddingTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.5, 0.5]},
				{"object": "embedding", "index": 0, "embedding": [1.0, 0.0]}
			],
			"model": "text-embedding-3-small",
			"usage": {"prompt_tokens": 4, "total_tokens": 4}
		}`))
	})
	embedder := NewOpenAIEmbedder(client, "text-embedding-3-small")

	// Act
	vectors, err := embedder.Embed(context.Background(), []string{"first", "second"})

	// Assert
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1.0, 0.0}, vectors[0])
	assert.Equal(t, []float32{0.5, 0.5}, vectors[1])
	assert.Equal(t, "text-embedding-3-small", gotBody["model"])
}

func TestOpenAIEmbedder_Embed_WhenNoTexts_ThenSkipsAPICall(t *testing.T) {
	// Arrange
	called := false
	client := newEmbeddingTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	embedder := NewOpenAIEmbedder(client, "text-embedding-3-small")

	// Act
	vectors, err := embedder.Embed(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.False(t, called)
}

func TestOpenAIEmbedder_Embed_WhenVectorCountMismatches_ThenReturnsError(t *testing.T) {
	// Arrange
	client := newEmbeddingTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [{"object": "embedding", "index": 0, "embedding": [1.0]}],
			"model": "text-embedding-3-small",
			"usage": {"prompt_tokens": 4, "total_tokens": 4}
		}`))
	})
	embedder := NewOpenAIEmbedder(client, "text-embedding-3-small")

	// Act
	_, err := embedder.Embed(context.Background(), []string{"first", "second"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2")
}

func TestOpenAIEmbedder_Embed_WhenServerFails_ThenReturnsError(t *testing.T) {
	// Arrange
	client := newEmbeddingTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	embedder := NewOpenAIEmbedder(client, "text-embedding-3-small")

	// Act
	_, err := embedder.Embed(context.Background(), []string{"first"})

	// Assert
	assert.Error(t, err)
}
