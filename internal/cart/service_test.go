package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dishtalgia-backend/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	carts map[string]Cart
	gets  int
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{carts: map[string]Cart{}}
}

func (f *fakeRepo) Get(_ context.Context, email string) (*Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.carts[email]
	if !ok {
		return nil, ErrCartNotFound
	}
	c.Items = append([]Line(nil), c.Items...)
	return &c, nil
}

func (f *fakeRepo) Save(_ context.Context, c *Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *c
	cp.Items = append([]Line(nil), c.Items...)
	f.carts[c.UserEmail] = cp
	return nil
}

func (f *fakeRepo) Clear(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.carts[email] = Cart{UserEmail: email, Items: []Line{}}
	return nil
}

type memCache struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	deletes int
}

func (m *memCache) Get(_ context.Context, email string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[email]
	if !ok {
		return nil, ErrCacheMiss
	}
	return c, nil
}

func (m *memCache) Set(_ context.Context, email string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[email] = c
	return nil
}

func (m *memCache) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.carts, email)
	return nil
}

func (m *memCache) has(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.carts[email]
	return ok
}

// pausingRepo blocks the first Get after reading until resume is closed.
type pausingRepo struct {
	*fakeRepo
	once   sync.Once
	loaded chan struct{}
	resume chan struct{}
}

func newPausingRepo(inner *fakeRepo) *pausingRepo {
	return &pausingRepo{fakeRepo: inner, loaded: make(chan struct{}), resume: make(chan struct{})}
}

func (p *pausingRepo) Get(ctx context.Context, email string) (*Cart, error) {
	c, err := p.fakeRepo.Get(ctx, email)
	paused := false
	p.once.Do(func() { paused = true })
	if paused {
		close(p.loaded)
		<-p.resume
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return c, err
}

type staticProducts struct{}

func (staticProducts) GetByID(_ context.Context, id int) (*catalog.Product, error) {
	if p := product(id); p != nil {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func newTestService() (*Service, *fakeRepo, *memCache) {
	repo := newFakeRepo()
	cache := &memCache{carts: map[string]*Cart{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cache, staticProducts{}, log), repo, cache
}

func TestService_GetEmptyCart(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.Get(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", c.UserEmail)
	assert.Empty(t, c.Items)
}

func TestService_GetUsesCache(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "a@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
}

func TestService_AddItem(t *testing.T) {
	svc, repo, cache := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "a@example.com", 1, "regular", 2)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, "a@example.com", 1, "regular", 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, repo.carts["a@example.com"].Items[0].Quantity)
	assert.Equal(t, 2, cache.deletes)
}

func TestService_AddItemErrors(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "a@example.com", 99, "regular", 1)
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = svc.AddItem(ctx, "a@example.com", 1, "huge", 1)
	assert.ErrorIs(t, err, ErrUnknownSize)

	_, err = svc.AddItem(ctx, "a@example.com", 1, "small", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_UpdateRemoveClear(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "a@example.com", 1, "small", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "a@example.com", 2, "large", 1)
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, "a@example.com", 1, "small", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items[0].Quantity)

	c, err = svc.UpdateQuantity(ctx, "a@example.com", 1, "small", 0)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	c, err = svc.RemoveItem(ctx, "a@example.com", 2, "large")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = svc.AddItem(ctx, "a@example.com", 3, "regular", 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "a@example.com"))
	assert.Empty(t, repo.carts["a@example.com"].Items)

	got, err := svc.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestService_RepoErrorPropagates(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errors.New("db down")

	_, err := svc.Get(context.Background(), "a@example.com")
	assert.Error(t, err)

	err = svc.Clear(context.Background(), "a@example.com")
	assert.Error(t, err)
}

func TestService_ClearDuringLoadDoesNotCacheStaleCart(t *testing.T) {
	inner := newFakeRepo()
	inner.carts["a@example.com"] = Cart{UserEmail: "a@example.com", Items: []Line{{ProductID: 1, SizeID: "regular", Quantity: 1}}}
	repo := newPausingRepo(inner)
	cache := &memCache{carts: map[string]*Cart{}}
	svc := NewService(repo, cache, staticProducts{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "a@example.com")
		done <- err
	}()

	<-repo.loaded
	require.NoError(t, svc.Clear(ctx, "a@example.com"))
	close(repo.resume)
	require.NoError(t, <-done)

	assert.False(t, cache.has("a@example.com"))

	got, err := svc.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestService_GetSharedLoadSurvivesCallerCancel(t *testing.T) {
	inner := newFakeRepo()
	inner.carts["a@example.com"] = Cart{UserEmail: "a@example.com", Items: []Line{{ProductID: 1, SizeID: "regular", Quantity: 2}}}
	repo := newPausingRepo(inner)
	cache := &memCache{carts: map[string]*Cart{}}
	svc := NewService(repo, cache, staticProducts{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.Get(firstCtx, "a@example.com")
		first <- err
	}()
	<-repo.loaded

	type result struct {
		cart *Cart
		err  error
	}
	second := make(chan result, 1)
	go func() {
		c, err := svc.Get(context.Background(), "a@example.com")
		second <- result{c, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(repo.resume)
	r := <-second
	require.NoError(t, r.err)
	require.Len(t, r.cart.Items, 1)
	assert.Equal(t, 2, r.cart.Items[0].Quantity)
}
