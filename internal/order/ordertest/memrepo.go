// Package ordertest provides an in-memory order repository for tests.
package ordertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"dishtalgia-backend/internal/order"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]order.Order

	InsertErr        error
	UpdatePaymentErr error
	ListErr          error
}

func NewMemRepo() *MemRepo {
	return &MemRepo{orders: map[primitive.ObjectID]order.Order{}}
}

func (r *MemRepo) Insert(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		return r.InsertErr
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return order.ErrDuplicateNumber
		}
	}
	o.ID = primitive.NewObjectID()
	r.orders[o.ID] = *o
	return nil
}

func (r *MemRepo) UpdatePayment(ctx context.Context, id primitive.ObjectID, userEmail string, u order.PaymentUpdate) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, false, err
	}
	if r.UpdatePaymentErr != nil {
		return false, false, r.UpdatePaymentErr
	}
	o, ok := r.orders[id]
	if !ok || o.UserEmail != userEmail {
		return false, false, nil
	}
	o.PaymentDetails = u.Details
	o.PaymentStatus = u.Status
	o.Status = order.StatusProcessing
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return true, true, nil
}

func (r *MemRepo) ListByUser(_ context.Context, userEmail string, skip, limit int64) ([]order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, 0, r.ListErr
	}
	var all []order.Order
	for _, o := range r.orders {
		if o.UserEmail == userEmail {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	out := []order.Order{}
	for i := skip; i < total && int64(len(out)) < limit; i++ {
		out = append(out, all[i])
	}
	return out, total, nil
}

func (r *MemRepo) FindForUser(_ context.Context, userEmail string, filter bson.M) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.UserEmail != userEmail {
			continue
		}
		if id, ok := filter["_id"].(primitive.ObjectID); ok && o.ID != id {
			continue
		}
		if num, ok := filter["orderNumber"].(string); ok && o.OrderNumber != num {
			continue
		}
		found := o
		return &found, nil
	}
	return nil, order.ErrNotFound
}

func (r *MemRepo) GetByNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			found := o
			return &found, nil
		}
	}
	return nil, order.ErrNotFound
}

func (r *MemRepo) SetStatus(_ context.Context, id primitive.ObjectID, from order.Status, set bson.M) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	if st, ok := set["status"].(order.Status); ok {
		o.Status = st
	}
	if reason, ok := set["cancellationReason"].(string); ok {
		o.CancellationReason = reason
	}
	r.orders[id] = o
	return true, nil
}

// All returns a snapshot of every stored order.
func (r *MemRepo) All() []order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out
}
