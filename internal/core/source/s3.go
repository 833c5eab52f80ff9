package source

import (
	"context"
	"sort"

	"code.sajari.com/docconv"
	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/models"
)

// S3Source treats an S3 bucket prefix as the corpus folder. The object key is
// the file identifier.
type S3Source struct {
	client     core.ObjectClient
	bucket     string
	prefix     string
	extensions map[string]struct{}
}

var _ core.DocumentSource = (*S3Source)(nil)

func NewS3Source(client core.ObjectClient, bucket, prefix string, extensions []string) *S3Source {
	return &S3Source{
		client:     client,
		bucket:     bucket,
		prefix:     prefix,
		extensions: extensionSet(extensions),
	}
}

func (s *S3Source) List(ctx context.Context) ([]models.SourceFile, error) {
	keys, err := s.client.ListKeys(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}

	var out []models.SourceFile
	for _, key := range keys {
		if !matchesExtension(key, s.extensions) {
			continue
		}
		out = append(out, models.SourceFile{
			ID:          key,
			ContentType: docconv.MimeTypeByExtension(key),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *S3Source) Read(ctx context.Context, id string) ([]byte, error) {
	return s.client.GetFile(ctx, s.bucket, id)
}
