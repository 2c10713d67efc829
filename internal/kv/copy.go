package kv

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Keyed is a store that can enumerate its keys.
type Keyed interface {
	Store
	Keys(ctx context.Context) ([]string, error)
}

// Copy writes every key of src into dst and returns the number of keys copied.
// Keys are copied concurrently; the first failure cancels the rest.
func Copy(ctx context.Context, src Keyed, dst Store) (int, error) {
	keys, err := src.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, key := range keys {
		g.Go(func() error {
			value, ok, err := src.Get(gctx, key)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			if !ok {
				return nil
			}
			if err := dst.Set(gctx, key, value); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
