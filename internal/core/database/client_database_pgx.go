package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oluseyi-dev/docdex/internal/config"
	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/models"
)

// VectorStoreClient implements core.VectorStore on Postgres+pgvector through
// the pgx stdlib driver.
type VectorStoreClient struct {
	db *sql.DB
}

var _ core.VectorStore = (*VectorStoreClient)(nil)

func NewVectorStoreClient(ctx context.Context, cfg *config.Config) (*VectorStoreClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("vector store configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Pool settings sized for a single ingestion worker plus the admin API.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	ctxPing, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctxPing); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &VectorStoreClient{db: sqlDB}, nil
}

func (c *VectorStoreClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *VectorStoreClient) CreateCollection(ctx context.Context, name string) (core.Collection, error) {
	const q = `
		INSERT INTO collections (name, created_at)
		VALUES ($1, now())
		RETURNING id
	`
	var id int64
	if err := c.db.QueryRowContext(ctx, q, name).Scan(&id); err != nil {
		return core.Collection{}, err
	}
	return core.Collection{ID: id, Name: name}, nil
}

func (c *VectorStoreClient) GetCollection(ctx context.Context, name string) (core.Collection, bool, error) {
	const q = `SELECT id FROM collections WHERE name = $1`
	var id int64
	err := c.db.QueryRowContext(ctx, q, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Collection{}, false, nil
	}
	if err != nil {
		return core.Collection{}, false, err
	}
	return core.Collection{ID: id, Name: name}, true, nil
}

// DeleteCollection removes the collection and, via ON DELETE CASCADE, all its
// chunk records.
func (c *VectorStoreClient) DeleteCollection(ctx context.Context, name string) error {
	const q = `DELETE FROM collections WHERE name = $1`
	res, err := c.db.ExecContext(ctx, q, name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("collection not found: %s", name)
	}
	return nil
}

func (c *VectorStoreClient) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	const q = `
		SELECT col.name, col.created_at, COUNT(ch.chunk_id)
		FROM collections col
		LEFT JOIN chunks ch ON ch.collection_id = col.id
		GROUP BY col.id, col.name, col.created_at
		ORDER BY col.name ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CollectionInfo
	for rows.Next() {
		var info models.CollectionInfo
		if err := rows.Scan(&info.Name, &info.CreatedAt, &info.Count); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (c *VectorStoreClient) Count(ctx context.Context, col core.Collection) (int, error) {
	const q = `SELECT COUNT(*) FROM chunks WHERE collection_id = $1`
	var n int
	if err := c.db.QueryRowContext(ctx, q, col.ID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *VectorStoreClient) ChunkIDs(ctx context.Context, col core.Collection) (map[string]struct{}, error) {
	const q = `SELECT chunk_id FROM chunks WHERE collection_id = $1`
	rows, err := c.db.QueryContext(ctx, q, col.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Upsert writes the batch in a single transaction: insert-or-overwrite by
// (collection_id, chunk_id). Failure rolls back this batch only.
func (c *VectorStoreClient) Upsert(ctx context.Context, col core.Collection, records []models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO chunks
			(collection_id, chunk_id, text, embedding, source, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (collection_id, chunk_id) DO UPDATE SET
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding,
			source = EXCLUDED.source
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		vec := pgvector.NewVector(rec.Embedding)
		if _, err := stmt.ExecContext(ctx, col.ID, rec.ID, rec.Text, vec, rec.Source); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
