package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, o domain.Order) {
	t.Helper()
	if o.TenantSlug == "" {
		o.TenantSlug = "sabor"
	}
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = testNow
	}
	o.UpdatedAt = o.CreatedAt
	rec := models.OrderFromDomain(o)
	require.NoError(t, db.Create(&rec).Error)
}

func tableOrder(id string, number int, name string, items ...domain.LineItem) domain.Order {
	return domain.Order{
		ID: id, OrderNumber: number, CustomerName: name, Type: domain.OrderTypeDineIn, TableNumber: "4",
		Items: items, Total: domain.ComputeTotal(items, domain.OrderTypeDineIn, dec("0"), dec("0")),
	}
}

func line(product string, qty int, price string) domain.LineItem {
	return domain.LineItem{ProductID: product, Name: product, Quantity: qty, UnitPrice: dec(price)}
}

func countChanges(t *testing.T, db *gorm.DB, id, action string) int64 {
	var n int64
	require.NoError(t, db.Model(&models.DBChange{}).Where("record_id = ? AND action_type = ?", id, action).Count(&n).Error)
	return n
}

func TestOrderStoreStatusCompareAndSet(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 1, "10")))

	o, err := store.UpdateOrderStatus(ctx, "sabor", "o1", domain.StatusPending, domain.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, o.Status)
	assert.Equal(t, int64(1), countChanges(t, db, "o1", ActionUpdate))

	_, err = store.UpdateOrderStatus(ctx, "sabor", "o1", domain.StatusPending, domain.StatusPreparing)
	assert.ErrorIs(t, err, kitchen.ErrStatusConflict)
	_, err = store.UpdateOrderStatus(ctx, "sabor", "nope", domain.StatusPending, domain.StatusPreparing)
	assert.ErrorIs(t, err, kitchen.ErrOrderNotFound)
	_, err = store.UpdateOrderStatus(ctx, "outra", "o1", domain.StatusPreparing, domain.StatusReadyToSend)
	assert.ErrorIs(t, err, kitchen.ErrOrderNotFound, "tenant scoped")
	assert.Equal(t, int64(1), countChanges(t, db, "o1", ActionUpdate))
}

func TestOrderStoreUpdateItems(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 1, "10"), line("p2", 2, "5")))

	o, err := store.UpdateOrderItems(ctx, "sabor", "o1", func(items []domain.LineItem) ([]domain.LineItem, error) {
		items[1].Checked = true
		return items, nil
	})
	require.NoError(t, err)
	assert.False(t, o.Items[0].Checked)
	assert.True(t, o.Items[1].Checked)

	_, err = store.UpdateOrderItems(ctx, "sabor", "o1", func(items []domain.LineItem) ([]domain.LineItem, error) {
		return nil, kitchen.ErrItemNotFound
	})
	assert.ErrorIs(t, err, kitchen.ErrItemNotFound)

	got, err := store.GetOrder(ctx, "sabor", "o1")
	require.NoError(t, err)
	assert.True(t, got.Items[1].Checked, "failed mutation rolled back")
	assert.Equal(t, int64(1), countChanges(t, db, "o1", ActionUpdate))
}

func TestOrderStoreBatchIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 1, "10")))
	seedOrder(t, db, tableOrder("o2", 2, "Ana", line("p1", 1, "10")))

	_, err := store.BatchUpdateStatus(ctx, "sabor", []string{"o1", "ghost"}, domain.StatusFinished)
	assert.ErrorIs(t, err, kitchen.ErrOrderNotFound)
	open, err := store.ListOpenOrders(ctx, "sabor")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	done, err := store.BatchUpdateStatus(ctx, "sabor", []string{"o1", "o2", "o1"}, domain.StatusFinished)
	require.NoError(t, err)
	require.Len(t, done, 2)
	open, err = store.ListOpenOrders(ctx, "sabor")
	require.NoError(t, err)
	assert.Empty(t, open)
	assert.Equal(t, int64(1), countChanges(t, db, "o2", ActionUpdate))
}

func TestOrderStoreDeleteAndReturnStock(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedProduct(t, db, "p1", "Pastel", "8", 0)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", "p1").Update("availability", "out_of_stock").Error)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 3, "8")))

	require.NoError(t, store.ReturnStock(ctx, "sabor", "p1", 3))
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, string(domain.Available), p.Availability)
	assert.ErrorIs(t, store.ReturnStock(ctx, "sabor", "ghost", 1), kitchen.ErrProductNotFound)

	deleted, err := store.DeleteOrder(ctx, "sabor", "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", deleted.ID)
	require.Len(t, deleted.Items, 1)
	assert.Equal(t, 3, deleted.Items[0].Quantity)
	_, err = store.DeleteOrder(ctx, "sabor", "o1")
	assert.ErrorIs(t, err, kitchen.ErrOrderNotFound)
	assert.Equal(t, int64(1), countChanges(t, db, "o1", ActionDelete))
}

func TestOrderStoreReturnStockLeavesUntrackedProduct(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedProduct(t, db, "p1", "Pastel", "8", 0)

	assert.ErrorIs(t, store.ReturnStock(ctx, "sabor", "p1", 2), kitchen.ErrStockUntracked)
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, string(domain.Available), p.Availability)
	assert.ErrorIs(t, store.ReturnStock(ctx, "otro", "p1", 2), kitchen.ErrProductNotFound)
}

func TestOrderStoreDeleteKeepsStoredQuantities(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 0, "8"), line("p2", 2, "5")))

	deleted, err := store.DeleteOrder(ctx, "sabor", "o1")
	require.NoError(t, err)
	require.Len(t, deleted.Items, 2)
	assert.Equal(t, 0, deleted.Items[0].Quantity)
	assert.Equal(t, 2, deleted.Items[1].Quantity)
}

type capturingSink struct {
	mu     sync.Mutex
	events []kitchen.ChangeEvent
}

func (s *capturingSink) Apply(ev kitchen.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) PublishOrderChange(ctx context.Context, ev kitchen.ChangeEvent) error {
	p.calls++
	return assert.AnError
}

func TestChangeMonitorFansOutOutbox(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)
	seedOrder(t, db, tableOrder("o1", 1, "Ana", line("p1", 1, "10")))
	require.NoError(t, recordChange(db, "sabor", EntityOrders, "o1", ActionInsert, testNow))
	_, err := store.UpdateOrderStatus(ctx, "sabor", "o1", domain.StatusPending, domain.StatusPreparing)
	require.NoError(t, err)
	seedOrder(t, db, tableOrder("o2", 2, "Bia", line("p1", 1, "10")))
	require.NoError(t, recordChange(db, "sabor", EntityOrders, "o2", ActionInsert, testNow))
	_, err = store.DeleteOrder(ctx, "sabor", "o2")
	require.NoError(t, err)
	require.NoError(t, recordChange(db, "sabor", "products", "p1", ActionUpdate, testNow))

	sink := &capturingSink{}
	pub := &failingPublisher{}
	cm := NewChangeMonitor(db, sink)
	cm.Publisher = pub

	n, err := cm.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.Len(t, sink.events, 3, "insert of a since-deleted order is skipped")
	assert.Equal(t, kitchen.ChangeInsert, sink.events[0].Change)
	assert.Equal(t, domain.StatusPreparing, sink.events[0].Order.Status, "payload is the current row")
	assert.Equal(t, kitchen.ChangeUpdate, sink.events[1].Change)
	assert.Equal(t, kitchen.ChangeDelete, sink.events[2].Change)
	assert.Equal(t, "o2", sink.events[2].OrderID)
	assert.Equal(t, 3, pub.calls, "publish errors are logged, not fatal")

	n, err = cm.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangeMonitorStartStop(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db, tableOrder("o1", 1, "Ana"))
	require.NoError(t, recordChange(db, "sabor", EntityOrders, "o1", ActionInsert, testNow))

	sink := &capturingSink{}
	cm := NewChangeMonitor(db, sink)
	cm.Interval = 10 * time.Millisecond
	cm.Start()
	defer cm.Stop()

	assert.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.events) == 1
	}, time.Second, 10*time.Millisecond)
}
