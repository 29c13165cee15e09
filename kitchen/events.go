package kitchen

import (
	"time"

	"github.com/comanda-app/comanda/domain"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one row of the order change feed. Order is nil for deletes.
type ChangeEvent struct {
	Change     ChangeType    `json:"change"`
	TenantSlug string        `json:"tenant_slug"`
	OrderID    string        `json:"order_id"`
	Order      *domain.Order `json:"order,omitempty"`
	At         time.Time     `json:"at"`
}

func InsertEvent(o domain.Order) ChangeEvent {
	return ChangeEvent{Change: ChangeInsert, TenantSlug: o.TenantSlug, OrderID: o.ID, Order: &o, At: o.UpdatedAt}
}

func UpdateEvent(o domain.Order) ChangeEvent {
	return ChangeEvent{Change: ChangeUpdate, TenantSlug: o.TenantSlug, OrderID: o.ID, Order: &o, At: o.UpdatedAt}
}

func DeleteEvent(tenant, id string, at time.Time) ChangeEvent {
	return ChangeEvent{Change: ChangeDelete, TenantSlug: tenant, OrderID: id, At: at}
}
