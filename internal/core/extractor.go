package core

import "context"

// DocumentExtractor turns raw document bytes into plain text. The contentType
// hint lets the extractor pick the right parsing strategy; an empty result is
// the caller's signal to treat the document as unprocessable.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, raw []byte, contentType string) (string, error)
}

// TextSplitter cuts cleaned text into an ordered sequence of bounded,
// overlapping chunks. Deterministic given identical inputs.
type TextSplitter interface {
	Split(text string) []string
}
