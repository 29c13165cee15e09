package kitchen

import (
	"sort"
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
)

// GroupBills merges open orders into bills.
//
// Dine-in orders that carry a table are keyed by (type, table, normalized
// customer name); every other order is its own bill. Closed orders never
// appear. Duplicate ids are collapsed first, keeping the copy with the latest
// UpdatedAt. The result is sorted by the primary order's creation time, so
// running it twice over the same input yields the same bills.
func GroupBills(orders []domain.Order) []domain.Bill {
	groups := make(map[string][]domain.Order)
	var keys []string
	for _, o := range dedupe(orders) {
		if !o.IsOpen() {
			continue
		}
		k := groupKey(o)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], o)
	}

	bills := make([]domain.Bill, 0, len(keys))
	for _, k := range keys {
		bills = append(bills, buildBill(k, groups[k]))
	}
	sort.SliceStable(bills, func(i, j int) bool {
		if !bills[i].CreatedAt.Equal(bills[j].CreatedAt) {
			return bills[i].CreatedAt.Before(bills[j].CreatedAt)
		}
		return bills[i].OrderID < bills[j].OrderID
	})
	return bills
}

func groupKey(o domain.Order) string {
	table := strings.TrimSpace(o.TableNumber)
	if o.Type == domain.OrderTypeDineIn && table != "" {
		return "table|" + string(o.Type) + "|" + table + "|" + domain.NormalizeName(o.CustomerName)
	}
	return "single|" + o.ID
}

func dedupe(orders []domain.Order) []domain.Order {
	idx := make(map[string]int, len(orders))
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if i, ok := idx[o.ID]; ok {
			if !o.UpdatedAt.Before(out[i].UpdatedAt) {
				out[i] = o
			}
			continue
		}
		idx[o.ID] = len(out)
		out = append(out, o)
	}
	return out
}

func buildBill(key string, members []domain.Order) domain.Bill {
	sorted := append([]domain.Order(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		return a.ID < b.ID
	})

	primary := sorted[0]
	bill := domain.Bill{
		Key:           key,
		OrderID:       primary.ID,
		OrderNumber:   primary.OrderNumber,
		TenantSlug:    primary.TenantSlug,
		CustomerName:  primary.CustomerName,
		CustomerPhone: primary.CustomerPhone,
		Type:          primary.Type,
		TableNumber:   primary.TableNumber,
		Address:       primary.Address,
		Observation:   primary.Observation,
		Status:        primary.Status,
		CreatedAt:     primary.CreatedAt,
		Total:         decimal.Zero,
		Grouped:       len(sorted) > 1,
		OrderIDs:      make([]string, 0, len(sorted)),
	}

	for n, o := range sorted {
		bill.OrderIDs = append(bill.OrderIDs, o.ID)
		bill.Total = bill.Total.Add(o.Total)
		for i, it := range domain.CloneItems(o.Items) {
			bill.Items = append(bill.Items, domain.BillItem{
				LineItem:     it,
				OrderID:      o.ID,
				ItemIndex:    i,
				IsAdditional: n > 0,
			})
		}
	}
	bill.Total = bill.Total.Round(2)
	return bill
}
