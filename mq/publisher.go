package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange        = "comanda.orders"
	NotificationsExchange = "comanda.notifications"
)

// Publisher pushes order change events and dispatch notices to RabbitMQ.
// Publishes are serialized so every message waits for its own confirm.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	acks <-chan amqp.Confirmation
	mu   sync.Mutex
}

// Dial connects, enables publisher confirms and declares both exchanges.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}
	if err := ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", NotificationsExchange, err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return &Publisher{conn: conn, ch: ch, acks: acks}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// OrderRoutingKey -> "orders.<tenant>.<insert|update|delete>"
func OrderRoutingKey(ev kitchen.ChangeEvent) string {
	return fmt.Sprintf("orders.%s.%s", ev.TenantSlug, strings.ToLower(string(ev.Change)))
}

// PublishOrderChange sends one change-feed event to the orders topic.
func (p *Publisher) PublishOrderChange(ctx context.Context, ev kitchen.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.publish(ctx, OrdersExchange, OrderRoutingKey(ev), ev.OrderID, body)
}

// DispatchNotice is the fanout payload sent when an order leaves for delivery.
type DispatchNotice struct {
	TenantSlug    string    `json:"tenant_slug"`
	OrderID       string    `json:"order_id"`
	OrderNumber   int       `json:"order_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_whatsapp"`
	Link          string    `json:"link"`
	At            time.Time `json:"at"`
}

func (p *Publisher) PublishDispatch(ctx context.Context, o domain.Order, link string) error {
	body, err := json.Marshal(DispatchNotice{
		TenantSlug:    o.TenantSlug,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Link:          link,
		At:            time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, NotificationsExchange, "", o.ID, body)
}

func (p *Publisher) publish(ctx context.Context, exchange, key, correlationID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Timestamp:     time.Now().UTC(),
		Headers:       amqp.Table{"x-source": "comanda"},
		Body:          body,
	}); err != nil {
		return err
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}
