package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoItems              = errors.New("no items in order")
	ErrInvalidItem          = errors.New("invalid order item")
	ErrNotFound             = errors.New("order not found")
	ErrInvalidID            = errors.New("invalid order id")
	ErrMissingDetails       = errors.New("payment details are required")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrInvalidPage          = errors.New("page out of range")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1_000_000

	insertAttempts = 3
)

// CartClearer empties the server side copy of a user's cart.
type CartClearer interface {
	Clear(ctx context.Context, userEmail string) error
}

type Options struct {
	TaxRate float64
	// OptimisticPayment writes paymentStatus completed at creation instead
	// of waiting for the capture to be confirmed.
	OptimisticPayment bool
}

type Service struct {
	repo    Repository
	carts   CartClearer
	numbers *NumberGenerator
	opts    Options
	log     *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, carts CartClearer, numbers *NumberGenerator, opts Options, log *slog.Logger) *Service {
	if numbers == nil {
		numbers = NewNumberGenerator()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:    repo,
		carts:   carts,
		numbers: numbers,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidItem, i)
		}
		if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return fmt.Errorf("%w: item %d has an invalid price", ErrInvalidItem, i)
		}
	}
	return nil
}

// Create persists a new order for the user and clears their server side cart.
func (s *Service) Create(ctx context.Context, userEmail string, items []ItemInput, paymentID string) (*Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	totals := ComputeTotals(items, s.opts.TaxRate)
	now := s.now()

	o := &Order{
		UserEmail:     userEmail,
		Items:         make([]Item, 0, len(items)),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentStatus: PaymentPending,
		PaymentMethod: MethodPayPal,
		PaymentID:     paymentID,
		Status:        StatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if s.opts.OptimisticPayment {
		o.PaymentStatus = PaymentCompleted
	}
	for _, it := range items {
		o.Items = append(o.Items, Item{
			ID:          primitive.NewObjectID().Hex(),
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Name:        it.ProductName,
			SizeID:      it.SizeID,
			SizeName:    it.SizeName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Image:       it.Image,
		})
	}

	var err error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		o.OrderNumber = s.numbers.Next()
		err = s.repo.Insert(ctx, o)
		if !errors.Is(err, ErrDuplicateNumber) {
			break
		}
		s.log.Warn("order number collision", slog.String("orderNumber", o.OrderNumber), slog.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	if s.carts != nil {
		if err := s.carts.Clear(ctx, userEmail); err != nil {
			s.log.Error("failed to clear cart after order",
				slog.String("user", userEmail),
				slog.String("orderNumber", o.OrderNumber),
				slog.Any("err", err))
		}
	}

	s.log.Info("order created",
		slog.String("orderNumber", o.OrderNumber),
		slog.String("user", userEmail),
		slog.Float64("total", o.Total))
	return o, nil
}

// UpdatePayment attaches capture details to one of the user's orders.
// It reports whether the stored document changed.
func (s *Service) UpdatePayment(ctx context.Context, userEmail, orderID string, details map[string]interface{}, paymentStatus string) (bool, error) {
	if orderID == "" || len(details) == 0 {
		return false, ErrMissingDetails
	}
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return false, ErrInvalidID
	}
	status, err := ParsePaymentStatus(paymentStatus)
	if err != nil {
		return false, err
	}

	matched, modified, err := s.repo.UpdatePayment(ctx, id, userEmail, PaymentUpdate{Details: details, Status: status})
	if err != nil {
		return false, err
	}
	if !matched {
		return false, ErrNotFound
	}
	return modified, nil
}

// List returns one page of the user's orders, newest first. Out of range
// page and limit values fall back to their defaults. Pages past MaxPage
// are rejected.
func (s *Service) List(ctx context.Context, userEmail string, page, limit int) (*Page, error) {
	if page > MaxPage {
		return nil, fmt.Errorf("%w: page must be at most %d", ErrInvalidPage, MaxPage)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	orders, total, err := s.repo.ListByUser(ctx, userEmail, int64(page-1)*int64(limit), int64(limit))
	if err != nil {
		return nil, err
	}

	return &Page{
		Data: orders,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			Limit:      limit,
		},
	}, nil
}

// Get looks up one of the user's orders by database id or order number.
func (s *Service) Get(ctx context.Context, userEmail, ref string) (*Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidID
	}
	if id, err := primitive.ObjectIDFromHex(ref); err == nil {
		return s.repo.FindForUser(ctx, userEmail, bson.M{"_id": id})
	}
	return s.repo.FindForUser(ctx, userEmail, bson.M{"orderNumber": ref})
}

// SetStatus moves an order through its status machine. It is the out of
// band admin action, no HTTP route exposes it.
func (s *Service) SetStatus(ctx context.Context, orderNumber string, to Status, reason string) (*Order, error) {
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	now := s.now()
	set := bson.M{"status": to, "updatedAt": now}
	switch to {
	case StatusDelivered:
		set["deliveredAt"] = now
		o.DeliveredAt = &now
	case StatusCancelled:
		set["cancelledAt"] = now
		o.CancelledAt = &now
		if reason != "" {
			set["cancellationReason"] = reason
			o.CancellationReason = reason
		}
	}

	ok, err := s.repo.SetStatus(ctx, o.ID, o.Status, set)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, orderNumber)
	}

	o.Status = to
	o.UpdatedAt = now
	return o, nil
}
