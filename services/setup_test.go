package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB -> database sqlite in-memory baru untuk tiap test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

var ctx = context.Background()

// Friday 2024-03-15 19:30 local
var testNow = time.Date(2024, 3, 15, 19, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedTenant(t *testing.T, db *gorm.DB) domain.Tenant {
	t.Helper()
	tn := domain.Tenant{
		Slug:           "sabor",
		Name:           "Sabor da Casa",
		WhatsApp:       "(11) 99999-0000",
		DeliveryFee:    dec("5"),
		CardMachineFee: dec("2"),
		IsOpen:         true,
		OperatingHours: map[string]domain.BusinessHours{
			"5": {Open: "18:00", Close: "23:00", IsOpen: true},
		},
		Printer: domain.PrinterSettings{Width: 80},
	}
	rec := models.TenantFromDomain(tn)
	require.NoError(t, db.Create(&rec).Error)
	return tn
}

func seedProduct(t *testing.T, db *gorm.DB, id, name, price string, stock int, sides ...domain.Side) {
	t.Helper()
	rec := models.ProductFromDomain(domain.Product{
		ID:         id,
		TenantSlug: "sabor",
		Name:       name,
		Price:      dec(price),
		Category:   "lanches",
		Stock:      stock,
		Sides:      sides,
	})
	require.NoError(t, db.Create(&rec).Error)
}

type recordingHub struct {
	mu    sync.Mutex
	notes []interface{}
	low   []domain.InventoryItem
}

func (h *recordingHub) BroadcastStaffNotification(tenant string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, data)
}

func (h *recordingHub) InventoryLow(tenant string, item domain.InventoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.low = append(h.low, item)
}
