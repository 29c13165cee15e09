package kitchen

import (
	"testing"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBillsMergesSameTableAndName(t *testing.T) {
	first := dineIn("o1", 1, "5", "Ana", 0, item("burger", 1, "30"))
	second := dineIn("o2", 2, "5", " ana ", 10, item("soda", 2, "6"), item("fries", 1, "12"))

	bills := GroupBills([]domain.Order{second, first})
	require.Len(t, bills, 1)

	b := bills[0]
	assert.True(t, b.Grouped)
	assert.Equal(t, "o1", b.OrderID)
	assert.Equal(t, []string{"o1", "o2"}, b.OrderIDs)
	assert.True(t, money("54").Equal(b.Total), "total %s", b.Total)
	require.Len(t, b.Items, 3)
	assert.False(t, b.Items[0].IsAdditional)
	assert.True(t, b.Items[1].IsAdditional)
	assert.Equal(t, "o2", b.Items[2].OrderID)
	assert.Equal(t, 1, b.Items[2].ItemIndex)
}

func TestGroupBillsTagsAdditionalItemsInThreeOrderGroup(t *testing.T) {
	first := dineIn("o1", 1, "9", "Carla", 0, item("burger", 1, "30"), item("fries", 1, "12"))
	second := dineIn("o2", 2, "9", "carla", 5, item("soda", 2, "6"))
	third := dineIn("o3", 3, "9", " CARLA", 12, item("beer", 1, "9.5"), item("pudding", 1, "8"), item("coffee", 1, "4"))

	type want struct {
		product    string
		order      string
		index      int
		additional bool
	}
	expected := []want{
		{"burger", "o1", 0, false},
		{"fries", "o1", 1, false},
		{"soda", "o2", 0, true},
		{"beer", "o3", 0, true},
		{"pudding", "o3", 1, true},
		{"coffee", "o3", 2, true},
	}

	for _, input := range [][]domain.Order{
		{third, first, second},
		{second, third, first},
		{first, second, third},
	} {
		bills := GroupBills(input)
		require.Len(t, bills, 1)
		b := bills[0]
		assert.Equal(t, "o1", b.OrderID)
		assert.Equal(t, []string{"o1", "o2", "o3"}, b.OrderIDs)
		assert.True(t, money("75.5").Equal(b.Total), "total %s", b.Total)
		require.Len(t, b.Items, len(expected))
		for i, w := range expected {
			it := b.Items[i]
			assert.Equal(t, w.product, it.ProductID, "item %d", i)
			assert.Equal(t, w.order, it.OrderID, "item %d", i)
			assert.Equal(t, w.index, it.ItemIndex, "item %d", i)
			assert.Equal(t, w.additional, it.IsAdditional, "item %d", i)
		}
	}
}

func TestGroupBillsKeepsApartDifferentCustomersAndTypes(t *testing.T) {
	orders := []domain.Order{
		dineIn("o1", 1, "5", "Ana", 0, item("burger", 1, "30")),
		dineIn("o2", 2, "5", "Bruno", 1, item("burger", 1, "30")),
		dineIn("o3", 3, "6", "Ana", 2, item("burger", 1, "30")),
		dineIn("o4", 4, "", "Ana", 3, item("burger", 1, "30")),
		delivery("o5", 5, "Ana", "11999990000", 4, item("burger", 1, "30")),
		delivery("o6", 6, "Ana", "11999990000", 5, item("burger", 1, "30")),
	}
	bills := GroupBills(orders)
	require.Len(t, bills, 6)
	for _, b := range bills {
		assert.False(t, b.Grouped)
		for _, it := range b.Items {
			assert.False(t, it.IsAdditional)
			assert.Equal(t, b.OrderID, it.OrderID)
		}
	}
}

func TestGroupBillsTrimsTableNumber(t *testing.T) {
	first := dineIn("o1", 1, " 5", "Ana", 0, item("burger", 1, "30"))
	second := dineIn("o2", 2, "5 ", "Ana", 1, item("soda", 1, "6"))
	other := dineIn("o3", 3, "15", "Ana", 2, item("fries", 1, "12"))

	bills := GroupBills([]domain.Order{other, second, first})
	require.Len(t, bills, 2)
	assert.Equal(t, []string{"o1", "o2"}, bills[0].OrderIDs)
	assert.True(t, bills[0].Grouped)
	assert.Equal(t, []string{"o3"}, bills[1].OrderIDs)
}

func TestGroupBillsSkipsClosedAndDedupes(t *testing.T) {
	done := dineIn("o1", 1, "5", "Ana", 0, item("burger", 1, "30"))
	done.Status = domain.StatusFinished
	canceled := dineIn("o2", 2, "5", "Ana", 1, item("burger", 1, "30"))
	canceled.Status = domain.StatusCanceled

	open := dineIn("o3", 3, "5", "Ana", 2, item("soda", 1, "6"))
	stale := open
	newer := open.Clone()
	newer.Items[0].Checked = true
	newer.UpdatedAt = open.UpdatedAt.Add(1)

	bills := GroupBills([]domain.Order{done, newer, canceled, stale})
	require.Len(t, bills, 1)
	assert.Equal(t, []string{"o3"}, bills[0].OrderIDs)
	assert.True(t, bills[0].Items[0].Checked, "latest copy wins")
}

func TestGroupBillsIsOrderIndependent(t *testing.T) {
	orders := []domain.Order{
		dineIn("o1", 1, "5", "Ana", 0, item("burger", 1, "30")),
		delivery("o2", 2, "Caio", "11988887777", 1, item("pizza", 1, "50")),
		dineIn("o3", 3, "5", "ANA", 2, item("soda", 1, "6")),
		dineIn("o4", 4, "2", "Duda", 3, item("beer", 3, "9.5")),
	}
	reversed := make([]domain.Order, len(orders))
	for i, o := range orders {
		reversed[len(orders)-1-i] = o
	}

	once := GroupBills(orders)
	assert.Equal(t, once, GroupBills(reversed))

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	sum := decimal.Zero
	for _, b := range once {
		sum = sum.Add(b.Total)
	}
	assert.True(t, total.Equal(sum), "bills %s vs orders %s", sum, total)
}

func TestGroupBillsItemsTraceBackToOrders(t *testing.T) {
	orders := []domain.Order{
		dineIn("o1", 1, "5", "Ana", 0, item("burger", 1, "30"), item("fries", 2, "12")),
		dineIn("o2", 2, "5", "Ana", 5, item("soda", 2, "6")),
		delivery("o3", 3, "Caio", "11988887777", 1, item("pizza", 1, "50")),
	}
	byID := map[string]domain.Order{}
	for _, o := range orders {
		byID[o.ID] = o
	}
	for _, b := range GroupBills(orders) {
		for _, it := range b.Items {
			src, ok := byID[it.OrderID]
			require.True(t, ok)
			require.Less(t, it.ItemIndex, len(src.Items))
			assert.Equal(t, src.Items[it.ItemIndex], it.LineItem)
		}
	}
}

func TestGroupBillsEmpty(t *testing.T) {
	assert.Empty(t, GroupBills(nil))
}
