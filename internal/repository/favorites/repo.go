// Package favorites persists saved combos per owner as a single JSON value.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/combo"
)

// KeyPrefix scopes favorites in a shared store.
var KeyPrefix = domain.KeyPrefix + "favorites:"

// store is the consumer interface for favorites (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo reads and writes an owner's favorites list.
type Repo struct {
	store store
}

// New creates a favorites repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Key returns the storage key for an owner.
func Key(owner string) string {
	return KeyPrefix + owner
}

// List returns the owner's favorites in saved order. A missing list is empty.
func (r *Repo) List(ctx context.Context, owner string) ([]combo.Combo, error) {
	data, err := r.store.Get(ctx, Key(owner))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []combo.Combo{}, nil
		}
		return nil, fmt.Errorf("get favorites: %w", err)
	}

	var dtos []comboDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	out := make([]combo.Combo, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Save replaces the owner's favorites. An empty list deletes the key.
func (r *Repo) Save(ctx context.Context, owner string, combos []combo.Combo) error {
	if len(combos) == 0 {
		if err := r.store.Del(ctx, Key(owner)); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		return nil
	}

	dtos := make([]comboDTO, len(combos))
	for i, c := range combos {
		dtos[i] = toComboDTO(c)
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := r.store.Set(ctx, Key(owner), data); err != nil {
		return fmt.Errorf("set favorites: %w", err)
	}
	return nil
}
