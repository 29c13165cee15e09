package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/sirupsen/logrus"
)

const defaultStoreTimeout = 10 * time.Second

// Engine keeps the open-order set of one tenant and performs the staff
// actions against the store. Local state only changes from what the store
// echoes back or from the change feed, so a failed write leaves it untouched.
type Engine struct {
	tenant   string
	store    Store
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
	timeout  time.Duration

	mu       sync.RWMutex
	orders   map[string]domain.Order
	versions map[string]time.Time
	gone     map[string]struct{}
	loaded   bool
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithStoreTimeout bounds every single store call made by the engine.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option { return func(e *Engine) { e.log = l } }

func NewEngine(tenant string, store Store, opts ...Option) *Engine {
	e := &Engine{
		tenant:   tenant,
		store:    store,
		log:      logrus.StandardLogger(),
		now:      time.Now,
		timeout:  defaultStoreTimeout,
		orders:   make(map[string]domain.Order),
		versions: make(map[string]time.Time),
		gone:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithField("tenant", tenant)
	return e
}

func (e *Engine) Tenant() string { return e.tenant }

func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *Engine) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// Load reads the open orders from the store and reconciles them with
// whatever the change feed delivered while the read was in flight.
func (e *Engine) Load(ctx context.Context) error {
	started := e.now()
	sctx, cancel := e.storeCtx(ctx)
	defer cancel()
	list, err := e.store.ListOpenOrders(sctx, e.tenant)
	if err != nil {
		return fmt.Errorf("load open orders: %w", err)
	}

	fresh := make(map[string]domain.Order, len(list))
	for _, o := range list {
		if cur, ok := fresh[o.ID]; ok && o.UpdatedAt.Before(cur.UpdatedAt) {
			continue
		}
		fresh[o.ID] = o.Clone()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for id, cur := range e.orders {
		l, ok := fresh[id]
		switch {
		case ok && cur.UpdatedAt.After(l.UpdatedAt):
			fresh[id] = cur
		case !ok && cur.UpdatedAt.After(started):
			fresh[id] = cur
		}
	}
	for id, v := range e.versions {
		if o, ok := fresh[id]; ok && v.After(o.UpdatedAt) {
			// feed already saw this order close or change after the read
			delete(fresh, id)
		}
	}
	for id := range e.gone {
		delete(fresh, id)
	}
	e.orders = fresh
	for id, o := range fresh {
		e.versions[id] = o.UpdatedAt
	}
	e.loaded = true
	return nil
}

// Apply folds one change-feed event into the open set. Replays and
// out-of-order deliveries are harmless: a copy older than the one already
// seen is ignored and deleted ids stay deleted.
func (e *Engine) Apply(ev ChangeEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.Change == ChangeDelete {
		e.forgetLocked(ev.OrderID)
		return
	}
	if ev.Order == nil {
		return
	}
	e.applyLocked(*ev.Order)
}

func (e *Engine) applyLocked(o domain.Order) {
	if _, ok := e.gone[o.ID]; ok {
		return
	}
	if v, ok := e.versions[o.ID]; ok && o.UpdatedAt.Before(v) {
		return
	}
	e.versions[o.ID] = o.UpdatedAt
	if !o.IsOpen() {
		delete(e.orders, o.ID)
		return
	}
	e.orders[o.ID] = o.Clone()
}

func (e *Engine) forgetLocked(id string) {
	delete(e.orders, id)
	delete(e.versions, id)
	e.gone[id] = struct{}{}
}

// Orders returns copies of the open orders, oldest first.
func (e *Engine) Orders() []domain.Order {
	e.mu.RLock()
	out := make([]domain.Order, 0, len(e.orders))
	for _, o := range e.orders {
		out = append(out, o.Clone())
	}
	e.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) Order(id string) (domain.Order, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o, ok := e.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return o.Clone(), true
}

// Bills -> hasil GroupBills atas order yang masih open
func (e *Engine) Bills() []domain.Bill {
	return GroupBills(e.Orders())
}

// BillFor returns the bill that currently contains orderID.
func (e *Engine) BillFor(orderID string) (domain.Bill, bool) {
	for _, b := range e.Bills() {
		if b.Contains(orderID) {
			return b, true
		}
	}
	return domain.Bill{}, false
}

// ToggleItemPrepared flips the checked flag of one item of one order. The
// whole items array is rewritten in a single store transaction so two cooks
// toggling different items of the same order do not overwrite each other.
func (e *Engine) ToggleItemPrepared(ctx context.Context, orderID string, itemIndex int) (domain.Order, error) {
	sctx, cancel := e.storeCtx(ctx)
	defer cancel()
	updated, err := e.store.UpdateOrderItems(sctx, e.tenant, orderID, func(items []domain.LineItem) ([]domain.LineItem, error) {
		if itemIndex < 0 || itemIndex >= len(items) {
			return nil, ErrItemNotFound
		}
		out := domain.CloneItems(items)
		out[itemIndex].Checked = !out[itemIndex].Checked
		return out, nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	e.mu.Lock()
	e.applyLocked(updated)
	e.mu.Unlock()
	return updated, nil
}

// AdvanceResult carries the stored order and, on dispatch, the customer link.
type AdvanceResult struct {
	Order        domain.Order `json:"order"`
	DispatchLink string       `json:"dispatch_link,omitempty"`
}

// AdvanceStatus moves one order a single step forward. The step is checked
// against the stored status, not the local copy, and written with a
// compare-and-set so two concurrent advances cannot both succeed.
func (e *Engine) AdvanceStatus(ctx context.Context, orderID string, next domain.Status) (AdvanceResult, error) {
	sctx, cancel := e.storeCtx(ctx)
	current, err := e.store.GetOrder(sctx, e.tenant, orderID)
	cancel()
	if err != nil {
		return AdvanceResult{}, err
	}
	if !CanAdvance(current.Status, current.Type, next) {
		return AdvanceResult{}, fmt.Errorf("%w: %s -> %s for %s order", ErrInvalidTransition, current.Status, next, current.Type)
	}

	sctx, cancel = e.storeCtx(ctx)
	updated, err := e.store.UpdateOrderStatus(sctx, e.tenant, orderID, current.Status, next)
	cancel()
	if err != nil {
		return AdvanceResult{}, err
	}
	e.mu.Lock()
	e.applyLocked(updated)
	e.mu.Unlock()

	res := AdvanceResult{Order: updated}
	if next == domain.StatusOutForDelivery && e.notifier != nil {
		nctx, ncancel := e.storeCtx(ctx)
		link, nerr := e.notifier.DispatchNotice(nctx, updated)
		ncancel()
		if nerr != nil {
			e.log.WithError(nerr).WithField("order_id", orderID).Warn("dispatch notice failed")
		}
		res.DispatchLink = link
	}
	return res, nil
}

// CloseBill finishes every order of a dine-in bill in one batch write.
func (e *Engine) CloseBill(ctx context.Context, bill domain.Bill) ([]domain.Order, error) {
	if bill.Type != domain.OrderTypeDineIn {
		return nil, fmt.Errorf("%w: only dine-in bills can be closed", ErrInvalidTransition)
	}
	if len(bill.OrderIDs) == 0 {
		return nil, ErrOrderNotFound
	}
	sctx, cancel := e.storeCtx(ctx)
	defer cancel()
	closed, err := e.store.BatchUpdateStatus(sctx, e.tenant, bill.OrderIDs, domain.StatusFinished)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	for _, o := range closed {
		e.applyLocked(o)
	}
	e.mu.Unlock()
	return closed, nil
}

// CloseBillFor closes the bill currently holding orderID.
func (e *Engine) CloseBillFor(ctx context.Context, orderID string) ([]domain.Order, error) {
	bill, ok := e.BillFor(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	return e.CloseBill(ctx, bill)
}

type DeleteOptions struct {
	Confirmed   bool
	ReturnStock bool
}

// StockReturn is the outcome of giving one line's quantity back.
type StockReturn struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Restored  bool   `json:"restored"`
	Untracked bool   `json:"untracked,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DeleteOrder removes an order for good. The delete goes first and stock is
// returned from the row it removed, so a lost race returns nothing. Stock
// return is best effort: a product that vanished or failed to update is
// reported and the order stays deleted.
func (e *Engine) DeleteOrder(ctx context.Context, orderID string, opt DeleteOptions) ([]StockReturn, error) {
	if !opt.Confirmed {
		return nil, ErrNotConfirmed
	}
	sctx, cancel := e.storeCtx(ctx)
	order, err := e.store.DeleteOrder(sctx, e.tenant, orderID)
	cancel()
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.forgetLocked(orderID)
	e.mu.Unlock()

	if !opt.ReturnStock {
		return nil, nil
	}
	var report []StockReturn
	for _, it := range order.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		r := StockReturn{ProductID: it.ProductID, Quantity: it.Quantity}
		sctx, cancel := e.storeCtx(ctx)
		rerr := e.store.ReturnStock(sctx, e.tenant, it.ProductID, it.Quantity)
		cancel()
		switch {
		case rerr == nil:
			r.Restored = true
		case errors.Is(rerr, ErrStockUntracked):
			r.Untracked = true
		default:
			r.Error = rerr.Error()
			e.log.WithError(rerr).WithFields(logrus.Fields{"order_id": orderID, "product_id": it.ProductID}).Warn("stock return skipped")
		}
		report = append(report, r)
	}
	return report, nil
}
