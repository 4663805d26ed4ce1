package cache

import (
	"context"

	"github.com/bestnight/bestnight/internal/db"
)

// Store is the cache surface the admin service needs.
type Store interface {
	Flush(ctx context.Context, prefix string) (int, error)
	Stats(ctx context.Context) (db.Stats, error)
}
