package ingestion_engine

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/oluseyi-dev/docdex/internal/core"
	"go.uber.org/zap"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv,
// falling back to a plain UTF-8 read when conversion fails or comes back
// empty. The first strategy returning non-empty text wins.
type DocconvExtractor struct {
	useReadability bool
	logger         *zap.Logger
}

func NewDocconvExtractor(useReadability bool, logger *zap.Logger) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability, logger: logger}
}

// ExtractText extracts plain text from raw based on content type.
func (e *DocconvExtractor) ExtractText(ctx context.Context, raw []byte, contentType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(raw), contentType, e.useReadability)
	if err != nil {
		e.logger.Debug("docconv extraction failed, trying plain-text fallback",
			zap.String("content_type", contentType), zap.Error(err))
	} else if strings.TrimSpace(res.Body) != "" {
		return res.Body, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Fallback strategy: treat valid UTF-8 bytes as the text itself.
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}
