package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/auth"
	"dishtalgia-backend/internal/cart"
	"dishtalgia-backend/internal/catalog"
	"dishtalgia-backend/internal/checkout"
	"dishtalgia-backend/internal/config"
	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/database"
	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"
	"dishtalgia-backend/internal/order/ordertest"
	"dishtalgia-backend/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDB struct {
	pingErr error
	status  *database.Status
}

func (f fakeDB) HealthCheck(context.Context) error { return f.pingErr }

func (f fakeDB) Status(context.Context) (*database.Status, error) {
	if f.pingErr != nil {
		return nil, f.pingErr
	}
	return f.status, nil
}

type memCatalog struct {
	products []catalog.Product
}

func (m *memCatalog) List(context.Context) ([]catalog.Product, error) { return m.products, nil }

func (m *memCatalog) GetByID(_ context.Context, id int) (*catalog.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *memCatalog) GetBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for i := range m.products {
		if m.products[i].Slug == slug {
			return &m.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *memCatalog) Upsert(_ context.Context, p *catalog.Product) error {
	m.products = append(m.products, *p)
	return nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func (m *memCarts) Get(_ context.Context, email string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[email]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	c.Items = append([]cart.Line(nil), c.Items...)
	return &c, nil
}

func (m *memCarts) Save(_ context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.Items = append([]cart.Line(nil), c.Items...)
	m.carts[c.UserEmail] = cp
	return nil
}

func (m *memCarts) Clear(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[email] = cart.Cart{UserEmail: email, Items: []cart.Line{}}
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]account.User
}

func (m *memUsers) Create(_ context.Context, u *account.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return account.ErrUserExists
	}
	u.ID = primitive.NewObjectID()
	m.users[u.Email] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) UpsertProfile(_ context.Context, email string, set bson.M, now time.Time) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		u = account.User{ID: primitive.NewObjectID(), Email: email, Role: account.RoleUser, CreatedAt: now}
	}
	if v, ok := set["name"].(string); ok {
		u.Name = v
	}
	if v, ok := set["phone"].(string); ok {
		u.Phone = v
	}
	if v, ok := set["address"].(account.Address); ok {
		u.Address = &v
	}
	u.UpdatedAt = now
	m.users[email] = u
	return &u, nil
}

func (m *memUsers) SetPassword(_ context.Context, email, hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return account.ErrUserNotFound
	}
	u.Password = hash
	u.UpdatedAt = now
	m.users[email] = u
	return nil
}

type memContacts struct {
	messages []contact.Message
}

func (m *memContacts) Insert(_ context.Context, msg *contact.Message) error {
	msg.ID = primitive.NewObjectID()
	m.messages = append(m.messages, *msg)
	return nil
}

type memFailures struct {
	mu       sync.Mutex
	attempts []notify.FailedAttempt
}

func (m *memFailures) Insert(_ context.Context, a *notify.FailedAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.attempts = append(m.attempts, *a)
	return nil
}

type capturerFunc func(ctx context.Context, id string) (*payment.Capture, error)

func (f capturerFunc) Capture(ctx context.Context, id string) (*payment.Capture, error) {
	return f(ctx, id)
}

type harness struct {
	handler  http.Handler
	tokens   *auth.Tokens
	orders   *ordertest.MemRepo
	carts    *memCarts
	users    *memUsers
	contacts *memContacts
	failures *memFailures
	db       *fakeDB
	capture  capturerFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &harness{
		orders:   ordertest.NewMemRepo(),
		carts:    &memCarts{carts: map[string]cart.Cart{}},
		users:    &memUsers{users: map[string]account.User{}},
		contacts: &memContacts{},
		failures: &memFailures{},
		db: &fakeDB{status: &database.Status{
			Database:    "dishtalgia",
			Collections: []string{"users", "products"},
		}},
	}
	h.capture = func(_ context.Context, id string) (*payment.Capture, error) {
		return &payment.Capture{ID: "CAP-1", OrderID: id, Status: "COMPLETED", Details: map[string]interface{}{"id": id}}, nil
	}

	products := &memCatalog{products: catalog.DefaultProducts()}
	carts := cart.NewService(h.carts, cart.NopCache{}, products, log)
	orders := order.NewService(h.orders, carts, nil, order.Options{TaxRate: 0.08}, log)
	notifier := notify.NewNotifier(h.failures, nil, log)
	checkoutSvc := checkout.NewService(orders, capturerFunc(func(ctx context.Context, id string) (*payment.Capture, error) {
		return h.capture(ctx, id)
	}), notifier, log)
	accounts := account.NewService(h.users, log)
	h.tokens = auth.NewTokens(testSecret, 12*time.Hour, time.Hour)

	srv := New(Deps{
		DB:       h.db,
		Products: products,
		Carts:    carts,
		Orders:   orders,
		Checkout: checkoutSvc,
		Notifier: notifier,
		Accounts: accounts,
		Logins:   auth.NewAuthenticator(h.users),
		Sessions: auth.NewManager(h.tokens, false, log),
		Contact:  contact.NewService(h.contacts, log),
	}, Options{Env: config.EnvTest, CORSOrigins: []string{"http://localhost:3000"}}, log)
	h.handler = srv.Handler()
	return h
}

func (h *harness) token(t *testing.T, email string) string {
	t.Helper()
	tok, _, err := h.tokens.Issue(auth.Session{UserID: "u1", Email: email, Name: "Ada", Role: account.RoleUser})
	require.NoError(t, err)
	return tok
}

// do sends a request, authenticated when token is not empty.
func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

var errBoom = errors.New("boom")
