package router

import (
	"github.com/comanda-app/comanda/config"
	"github.com/comanda-app/comanda/kds"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"gorm.io/gorm"
)

// Deps -> semua service yang dipakai controller, dirakit sekali saat serve
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	Hub    *kds.Hub

	Store         *services.OrderStore
	Kitchen       *kitchen.Registry
	Monitor       *services.ChangeMonitor
	Notifications *services.NotificationService
	Coupons       *services.CouponService
	Orders        *services.OrderService
	Catalog       *services.CatalogService
	Inventory     *services.InventoryService
	Finance       *services.FinanceService
}

// NewDeps wires the services. publisher may be nil when no broker is configured.
func NewDeps(db *gorm.DB, cfg config.Config, hub *kds.Hub, publisher services.DispatchPublisher) *Deps {
	if hub == nil {
		hub = kds.NewHub(utils.InfoLogger)
	}
	loc := cfg.Location()

	store := services.NewOrderStore(db)
	notifications := services.NewNotificationService(db, hub)
	coupons := services.NewCouponService(db, notifications)

	orders := services.NewOrderService(db, coupons, notifications)
	orders.Location = loc

	inventory := services.NewInventoryService(db, notifications)
	inventory.Alerts = hub

	finance := services.NewFinanceService(db, store)
	finance.Location = loc

	notifier := &services.DispatchNotifier{DB: db, Hub: hub, Publisher: publisher}
	registry := kitchen.NewRegistry(store,
		kitchen.WithNotifier(notifier),
		kitchen.WithStoreTimeout(cfg.StoreTimeout),
		kitchen.WithLogger(utils.InfoLogger),
	)

	monitor := services.NewChangeMonitor(db, registry, services.ChangeSinkFunc(hub.BroadcastOrderChange))
	if cfg.PollInterval > 0 {
		monitor.Interval = cfg.PollInterval
	}

	return &Deps{
		Config:        cfg,
		DB:            db,
		Hub:           hub,
		Store:         store,
		Kitchen:       registry,
		Monitor:       monitor,
		Notifications: notifications,
		Coupons:       coupons,
		Orders:        orders,
		Catalog:       services.NewCatalogService(db),
		Inventory:     inventory,
		Finance:       finance,
	}
}
