package core

import "context"

// EmbeddingProvider turns texts into fixed-length vectors. Implementations
// must be deterministic for a fixed model and input.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
