package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dishtalgia-backend/internal/catalog"

	"golang.org/x/sync/singleflight"
)

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrUnknownSize     = errors.New("unknown size for product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// ProductLookup resolves catalog entries for new cart lines.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (*catalog.Product, error)
}

const loadTimeout = 5 * time.Second

type Service struct {
	repo     Repository
	cache    Cache
	products ProductLookup
	log      *slog.Logger
	sfg      singleflight.Group

	// writeGen is bumped after every stored write. A read that loaded
	// before the bump must not populate the cache.
	mu       sync.Mutex
	writeGen uint64
}

func NewService(repo Repository, cache Cache, products ProductLookup, log *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, cache: cache, products: products, log: log}
}

// Get returns the user's cart, an empty one if none was stored yet.
// Concurrent reads for the same user share one load, and each caller
// stops waiting when its own context ends.
func (s *Service) Get(ctx context.Context, userEmail string) (*Cart, error) {
	ch := s.sfg.DoChan(userEmail, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.readThrough(loadCtx, userEmail)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Cart), nil
	}
}

func (s *Service) readThrough(ctx context.Context, userEmail string) (*Cart, error) {
	c, err := s.cache.Get(ctx, userEmail)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("cart cache get failed", slog.String("user", userEmail), slog.Any("err", err))
	}

	gen := s.generation()
	c, err = s.load(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeGen != gen {
		return c, nil
	}
	if err := s.cache.Set(ctx, userEmail, c); err != nil {
		s.log.Warn("cart cache set failed", slog.String("user", userEmail), slog.Any("err", err))
	}
	return c, nil
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeGen
}

// load reads the stored cart, bypassing the cache.
func (s *Service) load(ctx context.Context, userEmail string) (*Cart, error) {
	c, err := s.repo.Get(ctx, userEmail)
	if errors.Is(err, ErrCartNotFound) {
		return New(userEmail), nil
	}
	return c, err
}

func (s *Service) AddItem(ctx context.Context, userEmail string, productID int, sizeID string, qty int) (*Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrUnknownProduct
		}
		return nil, err
	}
	if _, ok := p.Size(sizeID); !ok {
		return nil, ErrUnknownSize
	}

	return s.mutate(ctx, userEmail, func(c *Cart) {
		c.Add(p, sizeID, qty)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, userEmail string, productID int, sizeID string, qty int) (*Cart, error) {
	return s.mutate(ctx, userEmail, func(c *Cart) {
		c.UpdateQuantity(productID, sizeID, qty)
	})
}

func (s *Service) RemoveItem(ctx context.Context, userEmail string, productID int, sizeID string) (*Cart, error) {
	return s.mutate(ctx, userEmail, func(c *Cart) {
		c.Remove(productID, sizeID)
	})
}

// Clear empties the stored cart and drops the cached copy.
func (s *Service) Clear(ctx context.Context, userEmail string) error {
	if err := s.repo.Clear(ctx, userEmail); err != nil {
		return err
	}
	s.invalidate(userEmail)
	return nil
}

func (s *Service) mutate(ctx context.Context, userEmail string, fn func(c *Cart)) (*Cart, error) {
	c, err := s.load(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(userEmail)
	return c, nil
}

func (s *Service) invalidate(userEmail string) {
	s.mu.Lock()
	s.writeGen++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userEmail); err != nil {
		s.log.Warn("cart cache invalidate failed", slog.String("user", userEmail), slog.Any("err", err))
	}
}
