// Package knowledge stores embedded textbook chunks in PostgreSQL with
// pgvector and serves cosine-similarity search over them. The ingestion
// pipeline writes chunks; the chatbot reads them for retrieval-augmented
// answers.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"

	"github.com/robobook/backend/internal/log"
)

// UpsertChunkParams are the inputs for Querier.UpsertChunk.
type UpsertChunkParams struct {
	ID         string
	URL        string
	ChunkIndex int
	Content    string
	Embedding  pgvector.Vector
}

// SearchChunksParams are the inputs for Querier.SearchChunks.
type SearchChunksParams struct {
	QueryEmbedding pgvector.Vector
	ResultLimit    int
}

// SearchChunksRow is one row returned by Querier.SearchChunks.
type SearchChunksRow struct {
	Chunk      Chunk
	Similarity float32
}

// Querier defines the database operations the Store needs.
// Following Go best practices: interfaces are defined by the consumer,
// not the provider.
type Querier interface {
	UpsertChunk(ctx context.Context, arg UpsertChunkParams) error
	SearchChunks(ctx context.Context, arg SearchChunksParams) ([]SearchChunksRow, error)
	CountChunks(ctx context.Context) (int64, error)
	DeleteChunksByURL(ctx context.Context, url string) (int64, error)
	DeleteAllChunks(ctx context.Context) error
}

// Store manages embedded chunks with vector search.
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	queries  Querier
	embedder ai.Embedder
	logger   log.Logger
}

// New creates a knowledge store. The embedder generates the vectors for
// both stored chunks and queries.
func New(querier Querier, embedder ai.Embedder, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{queries: querier, embedder: embedder, logger: logger}
}

// Add embeds a chunk's content and upserts it.
func (s *Store) Add(ctx context.Context, chunk Chunk) error {
	embedding, err := s.embed(ctx, chunk.Content)
	if err != nil {
		return fmt.Errorf("embedding chunk %q: %w", chunk.ID, err)
	}

	err = s.queries.UpsertChunk(ctx, UpsertChunkParams{
		ID:         chunk.ID,
		URL:        chunk.URL,
		ChunkIndex: chunk.Index,
		Content:    chunk.Content,
		Embedding:  embedding,
	})
	if err != nil {
		return fmt.Errorf("upserting chunk %q: %w", chunk.ID, err)
	}

	s.logger.Debug("added chunk", "id", chunk.ID, "url", chunk.URL, "content_length", len(chunk.Content))
	return nil
}

// Search returns the chunks most similar to the query, ordered by
// similarity. A timeout bounds the embedding call and the vector query.
//
// Example:
//
//	results, err := store.Search(ctx, "inverse kinematics", knowledge.WithTopK(10))
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	embedding, err := s.embed(queryCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding generation timeout: %w", err)
		}
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.queries.SearchChunks(queryCtx, SearchChunksParams{
		QueryEmbedding: embedding,
		ResultLimit:    cfg.topK,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{Chunk: row.Chunk, Similarity: row.Similarity})
	}
	return results, nil
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	// Overflow protection for 32-bit systems
	if count > math.MaxInt {
		return 0, fmt.Errorf("chunk count %d exceeds platform int capacity", count)
	}
	return int(count), nil
}

// DeleteByURL removes every chunk belonging to a page and returns how
// many were deleted. Used before re-ingesting a page.
func (s *Store) DeleteByURL(ctx context.Context, url string) (int64, error) {
	deleted, err := s.queries.DeleteChunksByURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks for %q: %w", url, err)
	}
	s.logger.Debug("deleted chunks", "url", url, "count", deleted)
	return deleted, nil
}

// Clear removes every stored chunk.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.queries.DeleteAllChunks(ctx); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

func (s *Store) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{Content: []*ai.Part{ai.NewTextPart(text)}},
		},
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, errors.New("empty embedding returned")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}
