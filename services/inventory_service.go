package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// LowStockAlerter receives items that just crossed below their minimum.
type LowStockAlerter interface {
	InventoryLow(tenant string, item domain.InventoryItem)
}

type InventoryService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Alerts        LowStockAlerter
	Now           func() time.Time
}

func NewInventoryService(db *gorm.DB, notifications *NotificationService) *InventoryService {
	return &InventoryService{DB: db, Notifications: notifications, Now: time.Now}
}

func (s *InventoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *InventoryService) List(ctx context.Context, tenant string, lowOnly bool) ([]domain.InventoryItem, error) {
	var recs []models.InventoryItem
	q := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant)
	if lowOnly {
		q = q.Where("current_qty <= min_qty")
	}
	if err := q.Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.InventoryItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

func (s *InventoryService) Get(ctx context.Context, tenant, id string) (domain.InventoryItem, error) {
	rec, err := findInventory(s.DB.WithContext(ctx), tenant, id)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return rec.ToDomain(), nil
}

func findInventory(tx *gorm.DB, tenant, id string) (models.InventoryItem, error) {
	var rec models.InventoryItem
	err := tx.Where("id = ? AND tenant_slug = ?", id, tenant).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrInventoryNotFound
	}
	return rec, err
}

func sanitizeInventory(i domain.InventoryItem) (domain.InventoryItem, error) {
	i.Name = strings.TrimSpace(i.Name)
	if i.Name == "" {
		return i, fmt.Errorf("inventory item name required")
	}
	if i.CurrentQty.IsNegative() || i.MinQty.IsNegative() || i.CostPrice.IsNegative() {
		return i, ErrInvalidQuantity
	}
	if i.Unit == "" {
		i.Unit = "un"
	}
	if i.Category == "" {
		i.Category = domain.InventoryOther
	}
	return i, nil
}

func (s *InventoryService) Create(ctx context.Context, tenant string, i domain.InventoryItem) (domain.InventoryItem, error) {
	i, err := sanitizeInventory(i)
	if err != nil {
		return i, err
	}
	i.ID = uuid.NewString()
	i.TenantSlug = tenant
	rec := models.InventoryFromDomain(i)
	rec.CreatedAt, rec.UpdatedAt = s.now(), s.now()
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.InventoryItem{}, err
	}
	return rec.ToDomain(), nil
}

func (s *InventoryService) Update(ctx context.Context, tenant, id string, i domain.InventoryItem) (domain.InventoryItem, error) {
	i, err := sanitizeInventory(i)
	if err != nil {
		return i, err
	}
	var out models.InventoryItem
	var crossed bool
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := findInventory(tx, tenant, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        i.Name,
			"current_qty": i.CurrentQty,
			"min_qty":     i.MinQty,
			"unit":        i.Unit,
			"category":    string(i.Category),
			"cost_price":  i.CostPrice,
			"updated_at":  s.now(),
		}).Error; err != nil {
			return err
		}
		out, err = findInventory(tx, tenant, id)
		crossed = !before.ToDomain().IsLow() && out.ToDomain().IsLow()
		return err
	})
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if crossed {
		s.alertLow(ctx, out.ToDomain())
	}
	return out.ToDomain(), nil
}

func (s *InventoryService) Delete(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInventoryNotFound
	}
	return nil
}

// Adjust adds delta (can be negative) to the current quantity, floored at 0.
func (s *InventoryService) Adjust(ctx context.Context, tenant, id string, delta decimal.Decimal) (domain.InventoryItem, error) {
	return s.mutateQty(ctx, tenant, id, func(cur decimal.Decimal) decimal.Decimal {
		return decimal.Max(decimal.Zero, cur.Add(delta))
	}, nil)
}

func (s *InventoryService) mutateQty(ctx context.Context, tenant, id string, next func(decimal.Decimal) decimal.Decimal, also func(tx *gorm.DB, before models.InventoryItem) error) (domain.InventoryItem, error) {
	var out models.InventoryItem
	var crossed bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := findInventory(tx, tenant, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
			"current_qty": next(before.CurrentQty),
			"updated_at":  s.now(),
		}).Error; err != nil {
			return err
		}
		if also != nil {
			if err := also(tx, before); err != nil {
				return err
			}
		}
		out, err = findInventory(tx, tenant, id)
		crossed = !before.ToDomain().IsLow() && out.ToDomain().IsLow()
		return err
	})
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if crossed {
		s.alertLow(ctx, out.ToDomain())
	}
	return out.ToDomain(), nil
}

// RecordWaste -> catat barang terbuang, kurangi stok, nilai = qty x harga pokok
func (s *InventoryService) RecordWaste(ctx context.Context, tenant, id string, qty decimal.Decimal, reason string) (domain.WasteRecord, error) {
	if !qty.IsPositive() {
		return domain.WasteRecord{}, ErrInvalidQuantity
	}
	var rec models.WasteRecord
	_, err := s.mutateQty(ctx, tenant, id, func(cur decimal.Decimal) decimal.Decimal {
		return decimal.Max(decimal.Zero, cur.Sub(qty))
	}, func(tx *gorm.DB, item models.InventoryItem) error {
		rec = models.WasteRecord{
			ID:          uuid.NewString(),
			TenantSlug:  tenant,
			InventoryID: item.ID,
			ItemName:    item.Name,
			Quantity:    qty,
			Unit:        item.Unit,
			CostValue:   qty.Mul(item.CostPrice).Round(2),
			Reason:      strings.TrimSpace(reason),
			Date:        s.now(),
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return domain.WasteRecord{}, err
	}
	return rec.ToDomain(), nil
}

func (s *InventoryService) WasteLog(ctx context.Context, tenant string, from, to time.Time) ([]domain.WasteRecord, error) {
	q := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}
	var recs []models.WasteRecord
	if err := q.Order("date DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.WasteRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

func (s *InventoryService) alertLow(ctx context.Context, item domain.InventoryItem) {
	if s.Notifications != nil {
		_, _ = s.Notifications.Create(ctx, item.TenantSlug, NotifSystem, "Estoque baixo ⚠️",
			fmt.Sprintf("%s está abaixo do mínimo (%s %s restantes).", item.Name, item.CurrentQty.String(), item.Unit))
	}
	if s.Alerts != nil {
		s.Alerts.InventoryLow(item.TenantSlug, item)
	}
}

type StockValuation struct {
	TotalValue        decimal.Decimal `json:"total_value"`
	LowStockCount     int             `json:"low_stock_count"`
	ReplenishmentCost decimal.Decimal `json:"replenishment_cost"`
}

func Valuation(items []domain.InventoryItem) StockValuation {
	v := StockValuation{}
	for _, i := range items {
		v.TotalValue = v.TotalValue.Add(i.CurrentQty.Mul(i.CostPrice))
		if i.IsLow() {
			v.LowStockCount++
			v.ReplenishmentCost = v.ReplenishmentCost.Add(i.MinQty.Sub(i.CurrentQty).Mul(i.CostPrice))
		}
	}
	v.TotalValue = v.TotalValue.Round(2)
	v.ReplenishmentCost = v.ReplenishmentCost.Round(2)
	return v
}

// ShoppingList renders the low-stock items as a WhatsApp-ready checklist.
func ShoppingList(items []domain.InventoryItem, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *LISTA DE COMPRAS - %s*\n\n", at.Format("02/01/2006"))
	low := make([]string, 0, len(items))
	cost := decimal.Zero
	for _, i := range items {
		if !i.IsLow() {
			continue
		}
		missing := i.MinQty.Sub(i.CurrentQty)
		cost = cost.Add(missing.Mul(i.CostPrice))
		low = append(low, fmt.Sprintf("[ ] %s\n    Faltam: %s %s (Mín: %s)", i.Name, missing.Ceil().String(), i.Unit, i.MinQty.String()))
	}
	b.WriteString(strings.Join(low, "\n\n"))
	fmt.Fprintf(&b, "\n\nCusto Est. Reposição: R$ %s", cost.StringFixed(2))
	return b.String()
}
