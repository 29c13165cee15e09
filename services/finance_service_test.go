package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func financeOrders() []domain.Order {
	return []domain.Order{
		{
			ID: "o1", Type: domain.OrderTypeDelivery, Status: domain.StatusFinished, Total: dec("100"), PaymentMethod: "pix",
			CreatedAt: time.Date(2024, 3, 10, 20, 15, 0, 0, time.UTC),
			Items: []domain.LineItem{
				{Name: "Picanha", Category: "pratos", InventoryID: "inv1", Quantity: 2, UnitPrice: dec("40")},
				{Name: "Refri", Category: "bebidas", Quantity: 2, UnitPrice: dec("10")},
			},
		},
		{
			ID: "o2", Type: domain.OrderTypeDineIn, Status: domain.StatusFinished, Total: dec("50"), PaymentMethod: "cash",
			CreatedAt: time.Date(2024, 3, 11, 12, 5, 0, 0, time.UTC),
			Items:     []domain.LineItem{{Name: "Refri", Category: "bebidas", Quantity: 5, UnitPrice: dec("10")}},
		},
		{
			ID: "o3", Type: domain.OrderTypeDelivery, Status: domain.StatusPreparing, Total: dec("999"),
			CreatedAt: time.Date(2024, 3, 11, 12, 5, 0, 0, time.UTC),
			Items:     []domain.LineItem{{Name: "Ignorado", Quantity: 9, UnitPrice: dec("1")}},
		},
	}
}

func TestBuildDRE(t *testing.T) {
	inv := []domain.InventoryItem{{ID: "inv1", CostPrice: dec("15")}}
	fixed := []models.FixedCost{{Amount: dec("900")}}
	manual := []models.ManualTransaction{
		{Amount: dec("30"), Type: TransactionOut},
		{Amount: dec("80"), Type: TransactionIn},
	}
	d := BuildDRE(financeOrders(), inv, fixed, manual, dec("2"))

	assert.Equal(t, 2, d.OrdersCount)
	assert.True(t, dec("150").Equal(d.Revenue))
	// 2x15 inventory cost + 7 x 10 x 0.35
	assert.True(t, dec("54.5").Equal(d.CMV), d.CMV.String())
	assert.True(t, dec("3").Equal(d.Taxes))
	assert.True(t, dec("30").Equal(d.ManualOut))
	assert.True(t, dec("80").Equal(d.ManualIn))
	assert.True(t, dec("987.5").Equal(d.TotalExpenses), d.TotalExpenses.String())
	assert.True(t, dec("-837.5").Equal(d.NetProfit))
	assert.True(t, dec("2000").Equal(d.BreakEven))
	assert.True(t, d.HasPaymentData)
	assert.True(t, dec("100").Equal(d.Payments.Pix))
	assert.True(t, dec("50").Equal(d.Payments.Cash))
	assert.True(t, d.Payments.Card.IsZero())
}

func TestBuildDREWithoutPaymentData(t *testing.T) {
	orders := financeOrders()
	for i := range orders {
		orders[i].PaymentMethod = ""
	}
	d := BuildDRE(orders, nil, nil, nil, dec("0"))
	assert.False(t, d.HasPaymentData)
	assert.True(t, d.Payments.Pix.IsZero())
	assert.True(t, d.Payments.Cash.IsZero())
	assert.True(t, d.BreakEven.IsZero())
	// without inventory links everything is estimated at 35%: (80 + 20 + 50) x 0.35
	assert.True(t, dec("52.5").Equal(d.CMV), d.CMV.String())
	assert.True(t, dec("150").Equal(d.Payments.Other))
}

func TestBuildCharts(t *testing.T) {
	cd := BuildCharts(financeOrders(), time.UTC)
	require.Len(t, cd.SalesByHour, 24)
	assert.Equal(t, "20h", cd.Hours[20])
	assert.True(t, dec("100").Equal(cd.SalesByHour[20]))
	assert.True(t, dec("50").Equal(cd.SalesByHour[12]), "unfinished orders excluded")
	assert.True(t, dec("100").Equal(cd.SalesByChannel.Delivery))
	assert.True(t, dec("50").Equal(cd.SalesByChannel.Local))
	assert.Equal(t, []ProductQty{{"Refri", 7}, {"Picanha", 2}}, cd.TopProducts)
	assert.Equal(t, []CategoryCount{{"bebidas", 7}, {"pratos", 2}}, cd.CategoryPercentages)
}

func TestSalesChartRendersPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SalesChart(&buf, "Vendas", BuildCharts(nil, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestFinanceReportAndCloseMonth(t *testing.T) {
	db := setupTestDB(t)
	seedTenant(t, db)
	for _, o := range financeOrders() {
		o.TenantSlug = "sabor"
		rec := models.OrderFromDomain(o)
		require.NoError(t, db.Create(&rec).Error)
	}
	old := models.OrderFromDomain(domain.Order{ID: "feb", TenantSlug: "sabor", OrderNumber: 9, Status: domain.StatusFinished,
		Total: dec("1000"), CreatedAt: time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, db.Create(&old).Error)

	svc := NewFinanceService(db, NewOrderStore(db))
	svc.Now = func() time.Time { return testNow }
	svc.Location = time.UTC

	_, err := svc.SaveFixedCost(ctx, "sabor", models.FixedCost{Name: "Aluguel", Amount: dec("900"), DueDay: 5})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, "sabor", models.ManualTransaction{Description: "Gás", Amount: dec("30"), Date: testNow})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, "sabor", models.ManualTransaction{Description: "x", Amount: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	rep, err := svc.Report(ctx, "sabor", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Sabor da Casa", rep.Tenant)
	assert.True(t, dec("150").Equal(rep.DRE.Revenue), "february excluded")
	assert.True(t, dec("30").Equal(rep.DRE.ManualOut))
	assert.True(t, dec("900").Equal(rep.DRE.FixedCosts))

	snap, err := svc.CloseMonth(ctx, "sabor")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Month)
	assert.Equal(t, 2024, snap.Year)
	assert.Equal(t, 2, snap.OrdersCount)

	_, err = svc.CloseMonth(ctx, "sabor")
	assert.ErrorIs(t, err, ErrMonthClosed)

	hist, err := svc.History(ctx, "sabor")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Contains(t, string(hist[0].Details), `"break_even"`)
}

func TestFixedCostCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinanceService(db, NewOrderStore(db))

	c, err := svc.SaveFixedCost(ctx, "sabor", models.FixedCost{Name: "Luz", Amount: dec("200"), DueDay: 10})
	require.NoError(t, err)
	c.Amount = dec("250")
	up, err := svc.SaveFixedCost(ctx, "sabor", c)
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(up.Amount))

	c.ID = "missing"
	_, err = svc.SaveFixedCost(ctx, "sabor", c)
	assert.ErrorIs(t, err, ErrFixedCostNotFound)

	require.NoError(t, svc.DeleteFixedCost(ctx, "sabor", up.ID))
	assert.ErrorIs(t, svc.DeleteFixedCost(ctx, "sabor", up.ID), ErrFixedCostNotFound)
}
