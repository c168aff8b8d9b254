package ai

import (
	"context"

	"github.com/notabase/notabase/plugin/search"
)

// localEmbeddingService is the zero-dependency fallback provider backed by
// the deterministic hash-based pseudo-embedding. It is used when no external
// embedding service is configured and works fully offline.
type localEmbeddingService struct {
	dimensions int
}

// NewLocalEmbeddingService creates the local deterministic provider.
func NewLocalEmbeddingService(dimensions int) EmbeddingService {
	if dimensions <= 0 {
		dimensions = search.EmbeddingDimensions
	}
	return &localEmbeddingService{dimensions: dimensions}
}

func (s *localEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vector, err := search.EmbedTextDim(text, s.dimensions)
	if err != nil {
		return nil, err
	}
	result := make([]float32, len(vector))
	for i, v := range vector {
		result[i] = float32(v)
	}
	return result, nil
}

func (s *localEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (s *localEmbeddingService) Dimensions() int {
	return s.dimensions
}
