package core

import (
	"context"
	"io"

	"github.com/oluseyi-dev/docdex/internal/models"
)

// Collection is a handle to one named set of chunk records inside the vector
// store. The numeric ID is store-internal; callers treat the handle as opaque.
type Collection struct {
	ID   int64
	Name string
}

// VectorStore defines all persistence operations the indexing pipeline needs
// from the vector database. It abstracts Postgres/pgvector so higher layers
// never depend on a specific backend.
type VectorStore interface {
	CreateCollection(ctx context.Context, name string) (Collection, error)
	GetCollection(ctx context.Context, name string) (Collection, bool, error)
	DeleteCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]models.CollectionInfo, error)

	Count(ctx context.Context, col Collection) (int, error)
	ChunkIDs(ctx context.Context, col Collection) (map[string]struct{}, error)

	// Upsert writes the batch in one transaction: insert-or-overwrite by
	// chunk id. A failed batch leaves earlier batches untouched.
	Upsert(ctx context.Context, col Collection, records []models.ChunkRecord) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so AWS can be replaced with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)

	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// DocumentSource enumerates and reads the candidate documents of one corpus
// location (a local folder, an S3 prefix, ...). List order is stable so runs
// are reproducible.
type DocumentSource interface {
	List(ctx context.Context) ([]models.SourceFile, error)
	Read(ctx context.Context, id string) ([]byte, error)
}
