package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DB is the database access needed by Queries. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the pgx implementation of Querier against the documents table.
type Queries struct {
	db DB
}

// NewQueries creates a Querier backed by db.
func NewQueries(db DB) *Queries {
	return &Queries{db: db}
}

func (q *Queries) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO documents (id, url, chunk_index, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			chunk_index = EXCLUDED.chunk_index,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`,
		arg.ID, arg.URL, arg.ChunkIndex, arg.Content, arg.Embedding)
	return err
}

func (q *Queries) SearchChunks(ctx context.Context, arg SearchChunksParams) ([]SearchChunksRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, url, chunk_index, content, created_at,
			1 - (embedding <=> $1) AS similarity
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		arg.QueryEmbedding, arg.ResultLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchChunksRow
	for rows.Next() {
		var (
			row       SearchChunksRow
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(&row.Chunk.ID, &row.Chunk.URL, &row.Chunk.Index,
			&row.Chunk.Content, &createdAt, &row.Similarity)
		if err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if createdAt.Valid {
			row.Chunk.CreatedAt = createdAt.Time
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (q *Queries) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&count)
	return count, err
}

func (q *Queries) DeleteChunksByURL(ctx context.Context, url string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM documents WHERE url = $1`, url)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) DeleteAllChunks(ctx context.Context) error {
	_, err := q.db.Exec(ctx, `DELETE FROM documents`)
	return err
}
