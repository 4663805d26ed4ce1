package favorites

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/combo"
)

// DefaultLimit caps saved combos per owner.
const DefaultLimit = 100

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// Service manages saved combos per owner.
type Service struct {
	repo  Repository
	limit int
	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// New creates a Service. limit <= 0 uses DefaultLimit.
func New(repo Repository, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{repo: repo, limit: limit}
}

// List returns the owner's favorites, most recently added last.
func (s *Service) List(ctx context.Context, owner string) ([]combo.Combo, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner)
}

// Add saves c for owner. Saving a combo that is already present is a no-op.
// The returned list is the owner's favorites after the call.
func (s *Service) Add(ctx context.Context, owner string, c combo.Combo) ([]combo.Combo, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if c.Restaurant().ID() == "" || c.Bar().ID() == "" {
		return nil, fmt.Errorf("%w: combo needs restaurant and bar ids", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, f := range current {
		if f.ID() == c.ID() {
			return current, nil
		}
	}
	if len(current) >= s.limit {
		return nil, fmt.Errorf("%w: favorites limit of %d reached", domain.ErrInvalidInput, s.limit)
	}

	next := append(current, c)
	if err := s.repo.Save(ctx, owner, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove deletes the combo with comboID. Removing an unknown id is a no-op.
func (s *Service) Remove(ctx context.Context, owner, comboID string) ([]combo.Combo, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if comboID == "" {
		return nil, fmt.Errorf("%w: combo id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	next := make([]combo.Combo, 0, len(current))
	for _, f := range current {
		if f.ID() != comboID {
			next = append(next, f)
		}
	}
	if len(next) == len(current) {
		return current, nil
	}
	if err := s.repo.Save(ctx, owner, next); err != nil {
		return nil, err
	}
	return next, nil
}

func validateOwner(owner string) error {
	if !ownerPattern.MatchString(owner) {
		return fmt.Errorf("%w: client id must be 1-128 characters of letters, digits, '.', '_' or '-'",
			domain.ErrInvalidInput)
	}
	return nil
}
