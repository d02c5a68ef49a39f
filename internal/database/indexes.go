package database

import (
	"context"
	"fmt"
)

// Indexer is implemented by repositories that own collection indexes.
type Indexer interface {
	CreateIndexes(ctx context.Context) error
}

func EnsureIndexes(ctx context.Context, indexers ...Indexer) error {
	for _, idx := range indexers {
		if err := idx.CreateIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	return nil
}
