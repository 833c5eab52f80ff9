package services

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/oluseyi-dev/docdex/internal/core"
)

// DocumentService adds documents to an S3-backed corpus through the admin
// API; they are picked up by the next Load run. Only wired when the source
// kind is s3.
type DocumentService struct {
	storage core.ObjectClient
	bucket  string
	prefix  string
}

func NewDocumentService(storage core.ObjectClient, bucket, prefix string) *DocumentService {
	return &DocumentService{storage: storage, bucket: bucket, prefix: prefix}
}

// Upload stores the document under the corpus prefix and returns its key and
// URL. The key embeds a fresh id so repeated uploads of the same filename
// never overwrite each other.
func (s *DocumentService) Upload(ctx context.Context, filename, contentType string, data []byte) (key, url string, err error) {
	key = s.objectKey(filename)
	url, err = s.storage.UploadFile(ctx, s.bucket, key, data, contentType)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// objectKey creates a consistent S3 key layout under the corpus prefix.
func (s *DocumentService) objectKey(filename string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	return path.Join(s.prefix, uuid.NewString(), filename)
}
