package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"

	EntityOrders = "orders"
)

// OrderStore is the gorm side of the kitchen engine. Every order write also
// appends a db_changes row inside the same transaction.
type OrderStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{DB: db, Now: time.Now}
}

var _ kitchen.Store = (*OrderStore)(nil)

func (s *OrderStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func recordChange(tx *gorm.DB, tenant, entity, id, action string, at time.Time) error {
	return tx.Create(&models.DBChange{
		TenantSlug: tenant,
		Entity:     entity,
		RecordID:   id,
		ActionType: action,
		ChangedAt:  at,
	}).Error
}

func openStatuses() []string {
	return []string{
		string(domain.StatusPending), string(domain.StatusPreparing),
		string(domain.StatusReadyToSend), string(domain.StatusOutForDelivery),
	}
}

func (s *OrderStore) ListOpenOrders(ctx context.Context, tenant string) ([]domain.Order, error) {
	var recs []models.Order
	if err := s.DB.WithContext(ctx).
		Where("tenant_slug = ? AND status IN ?", tenant, openStatuses()).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

func findOrder(tx *gorm.DB, tenant, id string) (models.Order, error) {
	var rec models.Order
	err := tx.Where("id = ? AND tenant_slug = ?", id, tenant).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, kitchen.ErrOrderNotFound
	}
	return rec, err
}

func (s *OrderStore) GetOrder(ctx context.Context, tenant, id string) (domain.Order, error) {
	rec, err := findOrder(s.DB.WithContext(ctx), tenant, id)
	if err != nil {
		return domain.Order{}, err
	}
	return rec.ToDomain(), nil
}

func (s *OrderStore) UpdateOrderStatus(ctx context.Context, tenant, id string, from, to domain.Status) (domain.Order, error) {
	var out models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND tenant_slug = ? AND status = ?", id, tenant, string(from)).
			Updates(map[string]interface{}{"status": string(to), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := findOrder(tx, tenant, id); err != nil {
				return err
			}
			return kitchen.ErrStatusConflict
		}
		if err := recordChange(tx, tenant, EntityOrders, id, ActionUpdate, now); err != nil {
			return err
		}
		var err error
		out, err = findOrder(tx, tenant, id)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain(), nil
}

func (s *OrderStore) UpdateOrderItems(ctx context.Context, tenant, id string, mutate func([]domain.LineItem) ([]domain.LineItem, error)) (domain.Order, error) {
	var out models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findOrder(tx.Clauses(clause.Locking{Strength: "UPDATE"}), tenant, id)
		if err != nil {
			return err
		}
		items, err := mutate(rec.ToDomain().Items)
		if err != nil {
			return err
		}
		now := s.now()
		if err := tx.Model(&models.Order{}).
			Where("id = ? AND tenant_slug = ?", id, tenant).
			Updates(map[string]interface{}{"items": datatypes.NewJSONSlice(items), "updated_at": now}).Error; err != nil {
			return err
		}
		if err := recordChange(tx, tenant, EntityOrders, id, ActionUpdate, now); err != nil {
			return err
		}
		out, err = findOrder(tx, tenant, id)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain(), nil
}

func (s *OrderStore) BatchUpdateStatus(ctx context.Context, tenant string, ids []string, to domain.Status) ([]domain.Order, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var recs []models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).
			Where("tenant_slug = ? AND id IN ?", tenant, unique).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(unique) {
			return fmt.Errorf("%w: %d of %d orders missing", kitchen.ErrOrderNotFound, len(unique)-int(count), len(unique))
		}
		now := s.now()
		if err := tx.Model(&models.Order{}).
			Where("tenant_slug = ? AND id IN ?", tenant, unique).
			Updates(map[string]interface{}{"status": string(to), "updated_at": now}).Error; err != nil {
			return err
		}
		for _, id := range unique {
			if err := recordChange(tx, tenant, EntityOrders, id, ActionUpdate, now); err != nil {
				return err
			}
		}
		return tx.Where("tenant_slug = ? AND id IN ?", tenant, unique).Order("created_at ASC").Find(&recs).Error
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// DeleteOrder removes the row and hands back what it held. Items keep their
// stored quantities so a stock return gives back exactly what was taken.
func (s *OrderStore) DeleteOrder(ctx context.Context, tenant, id string) (domain.Order, error) {
	var deleted domain.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findOrder(tx.Clauses(clause.Locking{Strength: "UPDATE"}), tenant, id)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return kitchen.ErrOrderNotFound
		}
		deleted = rec.ToDomain()
		deleted.Items = domain.CloneItems(rec.Items)
		return recordChange(tx, tenant, EntityOrders, id, ActionDelete, s.now())
	})
	if err != nil {
		return domain.Order{}, err
	}
	return deleted, nil
}

// ReturnStock only touches tracked products: stock above zero, or sold out
// by a sale. A product at 0 that is still available keeps no count.
func (s *OrderStore) ReturnStock(ctx context.Context, tenant, productID string, qty int) error {
	db := s.DB.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ? AND tenant_slug = ? AND (stock > 0 OR availability = ?)", productID, tenant, string(domain.OutOfStock)).
		Updates(map[string]interface{}{
			"stock":        gorm.Expr("stock + ?", qty),
			"availability": string(domain.Available),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.Model(&models.Product{}).Where("id = ? AND tenant_slug = ?", productID, tenant).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return kitchen.ErrProductNotFound
	}
	return kitchen.ErrStockUntracked
}

// ListOrders returns orders of a tenant created in [from, to), newest first.
// Empty status means every status.
func (s *OrderStore) ListOrders(ctx context.Context, tenant string, from, to time.Time, status string) ([]domain.Order, error) {
	q := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var recs []models.Order
	if err := q.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}
