package services

import (
	"context"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kds"
	"github.com/comanda-app/comanda/kitchen"
	"gorm.io/gorm"
)

// DispatchPublisher is the broker side of dispatch notices (mq.Publisher).
type DispatchPublisher interface {
	PublishDispatch(ctx context.Context, o domain.Order, link string) error
}

// DispatchNotifier builds the "saiu para entrega" WhatsApp link and pushes it
// to the dashboard and, when configured, to the broker.
type DispatchNotifier struct {
	DB        *gorm.DB
	Hub       *kds.Hub
	Publisher DispatchPublisher
}

var _ kitchen.Notifier = (*DispatchNotifier)(nil)

func (n *DispatchNotifier) DispatchNotice(ctx context.Context, o domain.Order) (string, error) {
	t, err := loadTenant(n.DB.WithContext(ctx), o.TenantSlug)
	if err != nil {
		return "", err
	}
	link := DispatchLink(o, t.Name)
	if n.Hub != nil {
		n.Hub.BroadcastDispatch(o.TenantSlug, kds.DispatchPayload{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Customer:    o.CustomerName,
			Link:        link,
		})
	}
	if n.Publisher != nil {
		if err := n.Publisher.PublishDispatch(ctx, o, link); err != nil {
			return link, err
		}
	}
	return link, nil
}
