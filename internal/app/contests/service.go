package contests

import (
	"context"
	"errors"
	"fmt"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

// ErrNotFound indicates a contest ID with no matching contest in the
// current aggregate.
var ErrNotFound = errors.New("contest not found")

// Cache is the read-through contest cache the service sits on top of.
type Cache interface {
	Contests(ctx context.Context) ([]domain.Contest, error)
	Clear()
}

// Service exposes contest reads to the HTTP layer.
type Service struct {
	cache Cache
}

func NewService(cache Cache) *Service {
	return &Service{cache: cache}
}

// Contests returns the current aggregate with query filters applied.
func (s *Service) Contests(ctx context.Context, q domain.Query) ([]domain.Contest, error) {
	all, err := s.cache.Contests(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

// ContestByID looks a single contest up in the current aggregate.
func (s *Service) ContestByID(ctx context.Context, id string) (domain.Contest, error) {
	all, err := s.cache.Contests(ctx)
	if err != nil {
		return domain.Contest{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Contest{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ClearCache drops the cached aggregate so the next read refetches.
func (s *Service) ClearCache() {
	s.cache.Clear()
}
