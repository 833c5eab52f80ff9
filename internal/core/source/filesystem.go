// Package source provides the document sources the indexer can ingest from:
// a local folder or an S3 prefix. Both enumerate candidates in a stable order
// and hand back raw bytes; everything downstream works on content digests.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"code.sajari.com/docconv"
	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/models"
)

// FilesystemSource lists matching files directly inside a folder. The file
// identifier is the base name, so moving the folder keeps identities stable.
type FilesystemSource struct {
	folder     string
	extensions map[string]struct{}
}

var _ core.DocumentSource = (*FilesystemSource)(nil)

func NewFilesystemSource(folder string, extensions []string) *FilesystemSource {
	return &FilesystemSource{folder: folder, extensions: extensionSet(extensions)}
}

func (s *FilesystemSource) List(ctx context.Context) ([]models.SourceFile, error) {
	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", s.folder, err)
	}

	var out []models.SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !matchesExtension(entry.Name(), s.extensions) {
			continue
		}
		out = append(out, models.SourceFile{
			ID:          entry.Name(),
			ContentType: docconv.MimeTypeByExtension(entry.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FilesystemSource) Read(ctx context.Context, id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.folder, id))
}

func extensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func matchesExtension(name string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToLower(filepath.Ext(name))]
	return ok
}
