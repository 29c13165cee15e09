package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventOrderInsert   = "order_insert"
	EventOrderUpdate   = "order_update"
	EventOrderDelete   = "order_delete"
	EventStaffNotif    = "staff_notification"
	EventDispatch      = "order_dispatched"
	EventInventoryLow  = "inventory_low"
	EventBoardSnapshot = "board_snapshot"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	tenant string
	role   string
}

// Hub menampung semua client KDS (chef, staff, admin) per tenant
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{clients: make(map[*websocket.Conn]client), log: log}
}

// RegisterClient -> menambahkan connection untuk tenant dan role tertentu
func (h *Hub) RegisterClient(conn *websocket.Conn, tenant, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = client{tenant: tenant, role: role}
}

// Join writes first to conn and registers it under the same lock, so no
// broadcast can reach the client before its snapshot.
func (h *Hub) Join(conn *websocket.Conn, tenant, role string, first Message) error {
	data, err := json.Marshal(first)
	if err != nil {
		return err
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.clients[conn] = client{tenant: tenant, role: role}
	return nil
}

// UnregisterClient -> melepaskan connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Count returns the number of clients connected for tenant.
func (h *Hub) Count(tenant string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.tenant == tenant {
			n++
		}
	}
	return n
}

// BroadcastOrderChange -> event change feed ke semua client tenant
func (h *Hub) BroadcastOrderChange(ev kitchen.ChangeEvent) {
	event := EventOrderUpdate
	switch ev.Change {
	case kitchen.ChangeInsert:
		event = EventOrderInsert
	case kitchen.ChangeDelete:
		event = EventOrderDelete
	}
	h.Broadcast(ev.TenantSlug, Message{Event: event, Data: ev})
}

// BroadcastStaffNotification -> notifikasi untuk staff
func (h *Hub) BroadcastStaffNotification(tenant string, data interface{}) {
	h.Broadcast(tenant, Message{Event: EventStaffNotif, Data: data})
}

// InventoryLow -> peringatan stok di bawah minimum
func (h *Hub) InventoryLow(tenant string, item domain.InventoryItem) {
	h.Broadcast(tenant, Message{Event: EventInventoryLow, Data: item})
}

// DispatchPayload is pushed when a delivery leaves, so the dashboard can
// open the WhatsApp link.
type DispatchPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	Customer    string `json:"customer_name"`
	Link        string `json:"whatsapp_link"`
}

func (h *Hub) BroadcastDispatch(tenant string, p DispatchPayload) {
	h.Broadcast(tenant, Message{Event: EventDispatch, Data: p})
}

// Broadcast sends msg to every client of tenant. Clients that fail a write
// are dropped.
func (h *Hub) Broadcast(tenant string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("marshal websocket message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if c.tenant != tenant {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{"tenant": tenant, "role": c.role}).Warn("dropping websocket client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
