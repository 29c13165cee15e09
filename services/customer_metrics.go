package services

import (
	"sort"
	"strings"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
)

type CustomerStatus string

const (
	CustomerNew     CustomerStatus = "novo"
	CustomerRegular CustomerStatus = "regular"
	CustomerVIP     CustomerStatus = "vip"
	CustomerGone    CustomerStatus = "sumido"
)

// CustomerMetric is one row of the CRM table.
type CustomerMetric struct {
	Key           string          `json:"key"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	LastOrder     time.Time       `json:"last_order"`
	DaysSince     int             `json:"days_since"`
	FavoriteDish  string          `json:"favorite_dish"`
	Status        CustomerStatus  `json:"status"`
}

type CustomerKPIs struct {
	NewThisMonth  int             `json:"new_this_month"`
	RetentionRate decimal.Decimal `json:"retention_rate"`
	Whales        int             `json:"whales"`
}

type CustomerReport struct {
	Customers []CustomerMetric `json:"customers"`
	KPIs      CustomerKPIs     `json:"kpis"`
}

var whaleThreshold = decimal.NewFromInt(200)

// customerKey -> nomor digits, atau NAME_<NAMA> kalau tidak ada nomor
func customerKey(o domain.Order) string {
	if digits := domain.DigitsOnly(o.CustomerPhone); digits != "" {
		return digits
	}
	name := strings.TrimSpace(o.CustomerName)
	if name == "" {
		name = "SEM_NOME"
	}
	return "NAME_" + strings.ToUpper(name)
}

// BuildCustomerReport aggregates customers out of the given orders.
func BuildCustomerReport(orders []domain.Order, now time.Time) CustomerReport {
	type acc struct {
		metric CustomerMetric
		dishes map[string]int
	}
	byKey := make(map[string]*acc)
	for _, o := range orders {
		k := customerKey(o)
		a, ok := byKey[k]
		if !ok {
			a = &acc{
				metric: CustomerMetric{Key: k, Name: o.CustomerName, Phone: o.CustomerPhone, TotalSpent: decimal.Zero},
				dishes: make(map[string]int),
			}
			byKey[k] = a
		}
		a.metric.TotalOrders++
		a.metric.TotalSpent = a.metric.TotalSpent.Add(o.Total)
		if o.CreatedAt.After(a.metric.LastOrder) {
			a.metric.LastOrder = o.CreatedAt
			if o.CustomerName != "" {
				a.metric.Name = o.CustomerName
			}
		}
		for _, it := range o.Items {
			a.dishes[it.Name] += it.Quantity
		}
	}

	out := CustomerReport{Customers: make([]CustomerMetric, 0, len(byKey))}
	returning := 0
	for _, a := range byKey {
		m := a.metric
		m.AverageTicket = m.TotalSpent.Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
		m.DaysSince = int(now.Sub(m.LastOrder).Hours() / 24)
		if m.DaysSince < 0 {
			m.DaysSince = 0
		}
		m.FavoriteDish = favoriteDish(a.dishes)
		switch {
		case m.DaysSince >= 15:
			m.Status = CustomerGone
		case m.TotalOrders >= 5:
			m.Status = CustomerVIP
		case m.TotalOrders == 1:
			m.Status = CustomerNew
		default:
			m.Status = CustomerRegular
		}

		if m.Status == CustomerNew {
			out.KPIs.NewThisMonth++
		}
		if m.TotalOrders > 1 {
			returning++
		}
		if m.TotalSpent.GreaterThan(whaleThreshold) {
			out.KPIs.Whales++
		}
		out.Customers = append(out.Customers, m)
	}
	if n := len(out.Customers); n > 0 {
		out.KPIs.RetentionRate = decimal.NewFromInt(int64(returning * 100)).Div(decimal.NewFromInt(int64(n))).Round(1)
	}

	sort.SliceStable(out.Customers, func(i, j int) bool {
		ci, cj := out.Customers[i], out.Customers[j]
		if !ci.TotalSpent.Equal(cj.TotalSpent) {
			return ci.TotalSpent.GreaterThan(cj.TotalSpent)
		}
		return ci.Key < cj.Key
	})
	return out
}

func favoriteDish(dishes map[string]int) string {
	best, bestQty := "N/A", 0
	for name, qty := range dishes {
		if qty > bestQty || (qty == bestQty && name < best) {
			best, bestQty = name, qty
		}
	}
	return best
}
