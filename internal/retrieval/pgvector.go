package retrieval

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// PgVectorStore searches policy document chunks stored in Postgres with a
// pgvector cosine-distance index.
type PgVectorStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
}

func NewPgVectorStore(ctx context.Context, config PostgresConfig, embedder Embedder) (*PgVectorStore, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database, Error: %w", err)
	}

	return &PgVectorStore{
		pool:     pool,
		embedder: embedder,
	}, nil
}

func (s *PgVectorStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgVectorStore) Close() {
	s.pool.Close()
}

func (s *PgVectorStore) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	embeddings, err := s.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Unable to generate embeddings. Error: %w", err)
	}

	sql := `
	SELECT
	  id,
	  document_id,
	  content,
	  embedding <=> $1 AS distance
	FROM policy_chunks
	ORDER BY distance ASC
	LIMIT $2`

	rows, err := s.pool.Query(ctx, sql, pgvector.NewVector(embeddings), topK)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		var distance float64

		if err := rows.Scan(&p.ChunkID, &p.DocumentID, &p.Content, &distance); err != nil {
			return nil, fmt.Errorf("Failed to scan row: %w", err)
		}

		p.Score = distanceToScore(distance)
		p.Rank = len(passages) + 1
		passages = append(passages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return passages, nil
}

// distanceToScore converts cosine distance (0 identical, 2 opposite) into a
// similarity score clamped to [0, 1].
func distanceToScore(distance float64) float64 {
	score := 1.0 - distance

	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}

	return score
}
