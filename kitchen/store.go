package kitchen

import (
	"context"
	"errors"

	"github.com/comanda-app/comanda/domain"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrNotConfirmed      = errors.New("deletion must be confirmed")
	// ErrStockUntracked: the product keeps no stock count (stock 0, still
	// available), so there is nothing to give back.
	ErrStockUntracked = errors.New("product stock not tracked")
)

// Store is the persistence side the engine reads from and writes through.
// Every write returns the record as stored so the engine can reconcile from
// the echo instead of committing its own guess.
type Store interface {
	ListOpenOrders(ctx context.Context, tenant string) ([]domain.Order, error)
	GetOrder(ctx context.Context, tenant, id string) (domain.Order, error)

	// UpdateOrderStatus writes `to` only while the stored status is still
	// `from`; otherwise it returns ErrStatusConflict.
	UpdateOrderStatus(ctx context.Context, tenant, id string, from, to domain.Status) (domain.Order, error)

	// UpdateOrderItems runs mutate over the stored items and persists the
	// full array in one transaction.
	UpdateOrderItems(ctx context.Context, tenant, id string, mutate func([]domain.LineItem) ([]domain.LineItem, error)) (domain.Order, error)

	// BatchUpdateStatus is all-or-nothing.
	BatchUpdateStatus(ctx context.Context, tenant string, ids []string, to domain.Status) ([]domain.Order, error)

	// DeleteOrder removes the order and returns it as it was stored, with
	// the stored item quantities. Of two concurrent deletes only one gets
	// the order; the other gets ErrOrderNotFound.
	DeleteOrder(ctx context.Context, tenant, id string) (domain.Order, error)

	// ReturnStock adds qty to the product stock and marks it available.
	// Untracked products are left alone with ErrStockUntracked.
	ReturnStock(ctx context.Context, tenant, productID string, qty int) error
}

// Notifier delivers the "order left for delivery" message. It is called
// after the status is stored and its failure never fails the request.
type Notifier interface {
	DispatchNotice(ctx context.Context, order domain.Order) (link string, err error)
}
