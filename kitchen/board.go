package kitchen

import (
	"strconv"
	"strings"

	"github.com/comanda-app/comanda/domain"
)

// BoardFilter narrows the board. Empty Type or "all" keeps every type.
type BoardFilter struct {
	Type   string
	Search string
}

type Card struct {
	domain.Bill
	WaitMinutes int           `json:"wait_minutes"`
	NextStatus  domain.Status `json:"next_status,omitempty"`
	NextAction  string        `json:"next_action,omitempty"`
	ItemsDone   int           `json:"items_done"`
}

type Column struct {
	Status domain.Status `json:"status"`
	Title  string        `json:"title"`
	Cards  []Card        `json:"cards"`
}

var columnTitles = map[domain.Status]string{
	domain.StatusPending:        "Novos",
	domain.StatusPreparing:      "Em preparo",
	domain.StatusReadyToSend:    "Prontos",
	domain.StatusOutForDelivery: "Em rota",
}

// Board lays the current bills out in status columns. A bill sits in the
// column of its primary order.
func (e *Engine) Board(f BoardFilter) []Column {
	now := e.now()
	cols := make([]Column, len(domain.BoardStatuses))
	pos := make(map[domain.Status]int, len(cols))
	for i, st := range domain.BoardStatuses {
		cols[i] = Column{Status: st, Title: columnTitles[st], Cards: []Card{}}
		pos[st] = i
	}

	typ := strings.ToLower(strings.TrimSpace(f.Type))
	var want domain.OrderType
	if typ != "" && typ != "all" {
		if t, err := domain.ParseOrderType(typ); err == nil {
			want = t
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))

	for _, b := range e.Bills() {
		if want != "" && b.Type != want {
			continue
		}
		if q != "" && !matchBill(b, q) {
			continue
		}
		i, ok := pos[b.Status]
		if !ok {
			continue
		}
		c := Card{Bill: b, WaitMinutes: b.WaitMinutes(now)}
		if next, ok := NextStatus(b.Status, b.Type); ok {
			c.NextStatus = next
			c.NextAction = ActionLabel(b.Status, b.Type)
		}
		for _, it := range b.Items {
			if it.Checked {
				c.ItemsDone++
			}
		}
		cols[i].Cards = append(cols[i].Cards, c)
	}
	return cols
}

func matchBill(b domain.Bill, q string) bool {
	if strings.Contains(strings.ToLower(b.CustomerName), q) ||
		strings.Contains(strings.ToLower(b.TableNumber), q) ||
		strings.Contains(b.CustomerPhone, q) {
		return true
	}
	for _, id := range b.OrderIDs {
		if strings.HasPrefix(strings.ToLower(id), q) {
			return true
		}
	}
	return strings.TrimPrefix(q, "#") == strconv.Itoa(b.OrderNumber)
}
