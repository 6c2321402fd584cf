package memstore

import (
	"context"

	"github.com/ideosphere/ideosphere/internal/repository"
)

// Seed loads the standalone demo dataset.
func (s *Store) Seed(ctx context.Context) error {
	return repository.SeedDemo(ctx, s.Users(), s.Ideas(), s.Posts(), s.Feedback(), s.Lineage())
}
