package favorites

import (
	"context"

	"github.com/bestnight/bestnight/internal/domain/combo"
)

// Repository loads and replaces an owner's saved combos.
type Repository interface {
	List(ctx context.Context, owner string) ([]combo.Combo, error)
	Save(ctx context.Context, owner string, combos []combo.Combo) error
}
