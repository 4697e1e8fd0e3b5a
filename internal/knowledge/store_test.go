package knowledge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robobook/backend/internal/log"
)

// mockEmbedder implements ai.Embedder for testing.
type mockEmbedder struct {
	delay         time.Duration
	embedErr      error
	returnEmpty   bool
	embeddings    []float32
	callCount     int
	lastInputText string
}

func (m *mockEmbedder) Name() string { return "mock-embedder" }

func (m *mockEmbedder) Register(api.Registry) {}

func (m *mockEmbedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.callCount++
	if len(req.Input) > 0 && len(req.Input[0].Content) > 0 {
		m.lastInputText = req.Input[0].Content[0].Text
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.returnEmpty {
		return &ai.EmbedResponse{Embeddings: []*ai.Embedding{{Embedding: []float32{}}}}, nil
	}
	embeddings := m.embeddings
	if embeddings == nil {
		embeddings = []float32{0.1, 0.2, 0.3}
	}
	return &ai.EmbedResponse{Embeddings: []*ai.Embedding{{Embedding: embeddings}}}, nil
}

// mockQuerier implements Querier for testing.
type mockQuerier struct {
	upsertErr error
	searchErr error
	countErr  error
	deleteErr error

	searchResults []SearchChunksRow
	countResult   int64
	deletedCount  int64

	upsertCalls []UpsertChunkParams
	searchCalls []SearchChunksParams
	deletedURLs []string
	clearCalls  int
}

func (m *mockQuerier) UpsertChunk(_ context.Context, arg UpsertChunkParams) error {
	m.upsertCalls = append(m.upsertCalls, arg)
	return m.upsertErr
}

func (m *mockQuerier) SearchChunks(_ context.Context, arg SearchChunksParams) ([]SearchChunksRow, error) {
	m.searchCalls = append(m.searchCalls, arg)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockQuerier) CountChunks(context.Context) (int64, error) {
	return m.countResult, m.countErr
}

func (m *mockQuerier) DeleteChunksByURL(_ context.Context, url string) (int64, error) {
	m.deletedURLs = append(m.deletedURLs, url)
	return m.deletedCount, m.deleteErr
}

func (m *mockQuerier) DeleteAllChunks(context.Context) error {
	m.clearCalls++
	return m.deleteErr
}

func TestStoreAdd(t *testing.T) {
	querier := &mockQuerier{}
	embedder := &mockEmbedder{}
	store := New(querier, embedder, log.NewNop())

	err := store.Add(context.Background(), Chunk{
		ID:      "page-1:0",
		URL:     "https://example.com/chapter-1",
		Index:   0,
		Content: "Robots perceive the world through sensors.",
	})
	require.NoError(t, err)

	require.Len(t, querier.upsertCalls, 1)
	call := querier.upsertCalls[0]
	assert.Equal(t, "page-1:0", call.ID)
	assert.Equal(t, "https://example.com/chapter-1", call.URL)
	assert.Equal(t, 0, call.ChunkIndex)
	assert.Equal(t, "Robots perceive the world through sensors.", embedder.lastInputText)
}

func TestStoreAddEmbedError(t *testing.T) {
	querier := &mockQuerier{}
	store := New(querier, &mockEmbedder{embedErr: errors.New("quota exceeded")}, log.NewNop())

	err := store.Add(context.Background(), Chunk{ID: "c-1", Content: "text"})
	assert.Error(t, err)
	assert.Empty(t, querier.upsertCalls, "upsert must not run when embedding fails")
}

func TestStoreAddEmptyEmbedding(t *testing.T) {
	store := New(&mockQuerier{}, &mockEmbedder{returnEmpty: true}, log.NewNop())

	err := store.Add(context.Background(), Chunk{ID: "c-1", Content: "text"})
	assert.ErrorContains(t, err, "empty embedding")
}

func TestStoreSearch(t *testing.T) {
	querier := &mockQuerier{
		searchResults: []SearchChunksRow{
			{Chunk: Chunk{ID: "c-1", Content: "sensors"}, Similarity: 0.92},
			{Chunk: Chunk{ID: "c-2", Content: "actuators"}, Similarity: 0.81},
		},
	}
	store := New(querier, &mockEmbedder{}, log.NewNop())

	results, err := store.Search(context.Background(), "how do robots sense?", WithTopK(2))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "c-1", results[0].Chunk.ID)
	assert.InDelta(t, 0.92, results[0].Similarity, 0.001)
	require.Len(t, querier.searchCalls, 1)
	assert.Equal(t, 2, querier.searchCalls[0].ResultLimit)
}

func TestStoreSearchDefaultTopK(t *testing.T) {
	querier := &mockQuerier{}
	store := New(querier, &mockEmbedder{}, log.NewNop())

	_, err := store.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, 5, querier.searchCalls[0].ResultLimit)
}

func TestStoreSearchTimeout(t *testing.T) {
	store := New(&mockQuerier{}, &mockEmbedder{delay: 50 * time.Millisecond}, log.NewNop())

	_, err := store.Search(context.Background(), "query", WithTimeout(time.Millisecond))
	assert.ErrorContains(t, err, "timeout")
}

func TestStoreCount(t *testing.T) {
	store := New(&mockQuerier{countResult: 42}, &mockEmbedder{}, log.NewNop())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestStoreDeleteByURL(t *testing.T) {
	querier := &mockQuerier{deletedCount: 3}
	store := New(querier, &mockEmbedder{}, log.NewNop())

	deleted, err := store.DeleteByURL(context.Background(), "https://example.com/chapter-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, []string{"https://example.com/chapter-1"}, querier.deletedURLs)
}

func TestStoreClear(t *testing.T) {
	querier := &mockQuerier{}
	store := New(querier, &mockEmbedder{}, log.NewNop())

	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, 1, querier.clearCalls)
}
