package cache

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/domain"
)

// Service reports and clears the provider result cache.
type Service struct {
	store     Store
	prefixes  []string
	adminKeys []string
	logger    *zap.Logger
}

// New creates a Service. prefixes are the key namespaces Clear removes.
// With no adminKeys configured, Clear is disabled.
func New(store Store, prefixes, adminKeys []string, logger *zap.Logger) *Service {
	keys := make([]string, 0, len(adminKeys))
	for _, k := range adminKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return &Service{
		store:     store,
		prefixes:  append([]string(nil), prefixes...),
		adminKeys: keys,
		logger:    logger,
	}
}

// Stats returns the current cache counters.
func (s *Service) Stats(ctx context.Context) (db.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return db.Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return st, nil
}

// Clear flushes every cached provider result and returns the number of
// removed keys. adminKey must match one of the configured keys.
func (s *Service) Clear(ctx context.Context, adminKey string) (int, error) {
	if err := s.authorize(adminKey); err != nil {
		return 0, err
	}

	total := 0
	for _, p := range s.prefixes {
		n, err := s.store.Flush(ctx, p)
		total += n
		if err != nil {
			return total, fmt.Errorf("flush %s: %w", p, err)
		}
	}
	s.logger.Info("Cache cleared", zap.Int("keys", total))
	return total, nil
}

func (s *Service) authorize(key string) error {
	if len(s.adminKeys) == 0 {
		return fmt.Errorf("%w: cache clear is disabled", domain.ErrForbidden)
	}
	if key == "" {
		return fmt.Errorf("%w: admin key required", domain.ErrUnauthorized)
	}
	for _, k := range s.adminKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return nil
		}
	}
	return fmt.Errorf("%w: admin key rejected", domain.ErrUnauthorized)
}
