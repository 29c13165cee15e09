package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store with a ticking clock.
type memStore struct {
	mu         sync.Mutex
	orders     map[string]domain.Order
	stock      map[string]int
	tick       time.Time
	batchCalls int
	failWrites error
	failStock  map[string]error
	untracked  map[string]bool
}

func newMemStore(orders ...domain.Order) *memStore {
	s := &memStore{
		orders:    make(map[string]domain.Order),
		stock:     make(map[string]int),
		tick:      time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC),
		failStock: make(map[string]error),
		untracked: make(map[string]bool),
	}
	for _, o := range orders {
		s.orders[o.ID] = o.Clone()
	}
	return s
}

func (s *memStore) next() time.Time {
	s.tick = s.tick.Add(time.Second)
	return s.tick
}

func (s *memStore) ListOpenOrders(_ context.Context, tenant string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.TenantSlug == tenant && o.IsOpen() {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (s *memStore) GetOrder(_ context.Context, tenant, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.TenantSlug != tenant {
		return domain.Order{}, ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s *memStore) UpdateOrderStatus(_ context.Context, tenant, id string, from, to domain.Status) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return domain.Order{}, s.failWrites
	}
	o, ok := s.orders[id]
	if !ok || o.TenantSlug != tenant {
		return domain.Order{}, ErrOrderNotFound
	}
	if o.Status != from {
		return domain.Order{}, ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = s.next()
	s.orders[id] = o
	return o.Clone(), nil
}

func (s *memStore) UpdateOrderItems(_ context.Context, tenant, id string, mutate func([]domain.LineItem) ([]domain.LineItem, error)) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return domain.Order{}, s.failWrites
	}
	o, ok := s.orders[id]
	if !ok || o.TenantSlug != tenant {
		return domain.Order{}, ErrOrderNotFound
	}
	items, err := mutate(domain.CloneItems(o.Items))
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	o.UpdatedAt = s.next()
	s.orders[id] = o
	return o.Clone(), nil
}

func (s *memStore) BatchUpdateStatus(_ context.Context, tenant string, ids []string, to domain.Status) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchCalls++
	if s.failWrites != nil {
		return nil, s.failWrites
	}
	for _, id := range ids {
		if o, ok := s.orders[id]; !ok || o.TenantSlug != tenant {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
	}
	at := s.next()
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o := s.orders[id]
		o.Status = to
		o.UpdatedAt = at
		s.orders[id] = o
		out = append(out, o.Clone())
	}
	return out, nil
}

func (s *memStore) DeleteOrder(_ context.Context, tenant, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return domain.Order{}, s.failWrites
	}
	o, ok := s.orders[id]
	if !ok || o.TenantSlug != tenant {
		return domain.Order{}, ErrOrderNotFound
	}
	delete(s.orders, id)
	return o.Clone(), nil
}

func (s *memStore) ReturnStock(_ context.Context, _ string, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failStock[productID]; err != nil {
		return err
	}
	if s.untracked[productID] {
		return ErrStockUntracked
	}
	if _, ok := s.stock[productID]; !ok {
		return ErrProductNotFound
	}
	s.stock[productID] += qty
	return nil
}

type stubNotifier struct {
	calls int
	err   error
}

func (n *stubNotifier) DispatchNotice(_ context.Context, o domain.Order) (string, error) {
	n.calls++
	if n.err != nil {
		return "", n.err
	}
	return "https://wa.me/55" + domain.DigitsOnly(o.CustomerPhone), nil
}

var errBoom = errors.New("boom")

var t0 = time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(product string, qty int, price string) domain.LineItem {
	return domain.LineItem{ProductID: product, Name: product, Quantity: qty, UnitPrice: money(price)}
}

func dineIn(id string, num int, table, name string, minute int, items ...domain.LineItem) domain.Order {
	at := t0.Add(time.Duration(minute) * time.Minute)
	return domain.Order{
		ID: id, OrderNumber: num, TenantSlug: "sabor", CustomerName: name,
		Type: domain.OrderTypeDineIn, TableNumber: table, Items: items,
		Total:  domain.ComputeTotal(items, domain.OrderTypeDineIn, decimal.Zero, decimal.Zero),
		Status: domain.StatusPending, CreatedAt: at, UpdatedAt: at,
	}
}

func delivery(id string, num int, name, phone string, minute int, items ...domain.LineItem) domain.Order {
	at := t0.Add(time.Duration(minute) * time.Minute)
	return domain.Order{
		ID: id, OrderNumber: num, TenantSlug: "sabor", CustomerName: name, CustomerPhone: phone,
		Type: domain.OrderTypeDelivery, Address: "Rua A, 10", Items: items,
		DeliveryFee: money("5"),
		Total:       domain.ComputeTotal(items, domain.OrderTypeDelivery, money("5"), decimal.Zero),
		Status:      domain.StatusPending, CreatedAt: at, UpdatedAt: at,
	}
}
