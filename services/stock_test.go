package services

import (
	"testing"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementStockUsesStoredValue(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "p1", "X-Burger", "20", 5)
	seedProduct(t, db, "p2", "Pastel", "8", 5)
	stale := map[string]models.Product{
		"p1": {ID: "p1", Stock: 5},
		"p2": {ID: "p2", Stock: 5},
	}
	// a stock return lands on p1 and a sale drains p2 after the cart was read
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", "p1").Update("stock", 8).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", "p2").Update("stock", 1).Error)

	require.NoError(t, decrementStock(db, []domain.LineItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 2},
	}, stale))

	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 6, p.Stock)
	assert.Equal(t, string(domain.Available), p.Availability)
	require.NoError(t, db.First(&p, "id = ?", "p2").Error)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, string(domain.OutOfStock), p.Availability)
}

func TestDeletedOrderOfUntrackedProductKeepsItSellable(t *testing.T) {
	db := setupTestDB(t)
	seedTenant(t, db)
	seedProduct(t, db, "p1", "Pastel", "8", 0)
	svc := newOrderService(db, &recordingHub{})
	sale := CounterSaleInput{TableNumber: "3", Items: []CartLine{{ProductID: "p1", Quantity: 2}}}

	o, err := svc.CounterSale(ctx, "sabor", sale)
	require.NoError(t, err)

	e := kitchen.NewEngine("sabor", NewOrderStore(db))
	report, err := e.DeleteOrder(ctx, o.ID, kitchen.DeleteOptions{Confirmed: true, ReturnStock: true})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Untracked)
	assert.False(t, report[0].Restored)
	assert.Empty(t, report[0].Error)

	for i := 0; i < 3; i++ {
		_, err = svc.CounterSale(ctx, "sabor", sale)
		require.NoError(t, err)
	}
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, string(domain.Available), p.Availability)
}

func TestDeleteReturnsSoldOutStock(t *testing.T) {
	db := setupTestDB(t)
	seedTenant(t, db)
	seedProduct(t, db, "p1", "X-Burger", "20", 2)
	svc := newOrderService(db, &recordingHub{})

	o, err := svc.CounterSale(ctx, "sabor", CounterSaleInput{TableNumber: "1", Items: []CartLine{{ProductID: "p1", Quantity: 2}}})
	require.NoError(t, err)
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	require.Equal(t, string(domain.OutOfStock), p.Availability)

	e := kitchen.NewEngine("sabor", NewOrderStore(db))
	report, err := e.DeleteOrder(ctx, o.ID, kitchen.DeleteOptions{Confirmed: true, ReturnStock: true})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Restored)

	_, err = e.DeleteOrder(ctx, o.ID, kitchen.DeleteOptions{Confirmed: true, ReturnStock: true})
	assert.ErrorIs(t, err, kitchen.ErrOrderNotFound)

	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, string(domain.Available), p.Availability)
}
