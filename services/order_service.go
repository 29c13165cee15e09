package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrStoreClosed     = errors.New("store is closed")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownProduct  = errors.New("product not in catalogue")
	ErrUnknownSide     = errors.New("side not offered for product")
	ErrProductSoldOut  = errors.New("product out of stock")
	ErrMissingTable    = errors.New("table number required for dine-in")
	ErrMissingDelivery = errors.New("address and whatsapp required for delivery")
)

// CartLine is one line as the storefront sends it. Prices never come from
// the client; sides are referenced by name.
type CartLine struct {
	ProductID string   `json:"product_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	Sides     []string `json:"selected_sides"`
	Doneness  string   `json:"doneness"`
	Note      string   `json:"note"`
}

type PlaceOrderInput struct {
	CustomerName  string     `json:"customer_name" binding:"required"`
	CustomerPhone string     `json:"customer_whatsapp"`
	UserID        string     `json:"user_id"`
	Type          string     `json:"type" binding:"required"`
	TableNumber   string     `json:"table_number"`
	Address       string     `json:"address"`
	Observation   string     `json:"observation"`
	PaymentMethod string     `json:"payment_method"`
	CouponCode    string     `json:"coupon_code"`
	Items         []CartLine `json:"items" binding:"required,min=1"`
}

type PlacedOrder struct {
	Order        domain.Order `json:"order"`
	WhatsAppLink string       `json:"whatsapp_link"`
}

// OrderService handles checkout. Kitchen-side mutations live in the kitchen
// engine; this only creates orders.
type OrderService struct {
	DB            *gorm.DB
	Coupons       *CouponService
	Notifications *NotificationService
	Now           func() time.Time
	// Location is the timezone used for opening hours.
	Location *time.Location
}

func NewOrderService(db *gorm.DB, coupons *CouponService, notifications *NotificationService) *OrderService {
	return &OrderService{DB: db, Coupons: coupons, Notifications: notifications, Now: time.Now, Location: time.Local}
}

func (s *OrderService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func loadTenant(tx *gorm.DB, slug string) (domain.Tenant, error) {
	var rec models.Tenant
	err := tx.Where("slug = ?", slug).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		return domain.Tenant{}, err
	}
	return rec.ToDomain(nil), nil
}

// PlaceOrder is the storefront checkout.
func (s *OrderService) PlaceOrder(ctx context.Context, tenant string, in PlaceOrderInput) (PlacedOrder, error) {
	t, err := loadTenant(s.DB.WithContext(ctx), tenant)
	if err != nil {
		return PlacedOrder{}, err
	}
	if !t.IsOpenAt(s.now()) {
		return PlacedOrder{}, ErrStoreClosed
	}
	o, err := s.place(ctx, t, in, true)
	if err != nil {
		return PlacedOrder{}, err
	}
	link := WhatsAppLink(WhatsAppNumber(t.WhatsApp), CheckoutMessage(t, o))
	return PlacedOrder{Order: o, WhatsAppLink: link}, nil
}

type CounterSaleInput struct {
	CustomerName  string     `json:"customer_name"`
	TableNumber   string     `json:"table_number" binding:"required"`
	Observation   string     `json:"observation"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartLine `json:"items" binding:"required,min=1"`
}

// CounterSale -> pesanan dari kasir: dine-in, tanpa telepon, tanpa kupon,
// tidak terikat jam buka.
func (s *OrderService) CounterSale(ctx context.Context, tenant string, in CounterSaleInput) (domain.Order, error) {
	t, err := loadTenant(s.DB.WithContext(ctx), tenant)
	if err != nil {
		return domain.Order{}, err
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = "Balcão"
	}
	return s.place(ctx, t, PlaceOrderInput{
		CustomerName:  name,
		Type:          string(domain.OrderTypeDineIn),
		TableNumber:   in.TableNumber,
		Observation:   in.Observation,
		PaymentMethod: in.PaymentMethod,
		Items:         in.Items,
	}, false)
}

func validatePlacement(typ domain.OrderType, in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return ErrEmptyCart
	}
	switch typ {
	case domain.OrderTypeDineIn:
		if strings.TrimSpace(in.TableNumber) == "" {
			return ErrMissingTable
		}
	case domain.OrderTypeDelivery:
		if strings.TrimSpace(in.Address) == "" || domain.DigitsOnly(in.CustomerPhone) == "" {
			return ErrMissingDelivery
		}
	}
	return nil
}

// priceCart resolves every cart line against the catalogue.
func priceCart(tx *gorm.DB, tenant string, lines []CartLine) ([]domain.LineItem, map[string]models.Product, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	var recs []models.Product
	// rows stay locked until the order commits, so availability and stock
	// are judged on what the decrement will see
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_slug = ? AND id IN ?", tenant, ids).
		Find(&recs).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Product, len(recs))
	for _, r := range recs {
		byID[r.ID] = r
	}

	items := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		rec, ok := byID[l.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProduct, l.ProductID)
		}
		p := rec.ToDomain()
		if p.Availability == domain.OutOfStock {
			return nil, nil, fmt.Errorf("%w: %s", ErrProductSoldOut, p.Name)
		}
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		sides := make([]domain.Side, 0, len(l.Sides))
		for _, name := range l.Sides {
			side, ok := p.FindSide(name)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s / %s", ErrUnknownSide, p.Name, name)
			}
			sides = append(sides, side)
		}
		items = append(items, domain.LineItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Category:    p.Category,
			InventoryID: p.InventoryID,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Sides:       sides,
			Doneness:    l.Doneness,
			Note:        strings.TrimSpace(l.Note),
		})
	}
	return items, byID, nil
}

func (s *OrderService) place(ctx context.Context, t domain.Tenant, in PlaceOrderInput, storefront bool) (domain.Order, error) {
	typ, err := domain.ParseOrderType(in.Type)
	if err != nil {
		return domain.Order{}, err
	}
	if err := validatePlacement(typ, in); err != nil {
		return domain.Order{}, err
	}

	var (
		placed domain.Order
		notif  *models.Notification
	)
	// nomor order bisa bentrok kalau dua checkout bersamaan; ulangi
	for attempt := 0; attempt < 3; attempt++ {
		notif = nil
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			items, products, err := priceCart(tx, t.Slug, in.Items)
			if err != nil {
				return err
			}

			discount := decimal.Zero
			var coupon *domain.Coupon
			if storefront && typ == domain.OrderTypeDelivery && strings.TrimSpace(in.CouponCode) != "" && s.Coupons != nil {
				c, err := s.Coupons.validateTx(tx, t.Slug, in.CouponCode, in.UserID)
				if err != nil {
					return err
				}
				coupon = &c
				discount = c.DiscountValue
			}
			fee := decimal.Zero
			if typ == domain.OrderTypeDelivery {
				fee = t.DeliveryFee
			}

			var maxNumber int
			if err := tx.Model(&models.Order{}).Where("tenant_slug = ?", t.Slug).
				Select("COALESCE(MAX(order_number), 0)").Scan(&maxNumber).Error; err != nil {
				return err
			}

			now := s.now()
			o := domain.Order{
				ID:            uuid.NewString(),
				OrderNumber:   maxNumber + 1,
				TenantSlug:    t.Slug,
				CustomerName:  strings.TrimSpace(in.CustomerName),
				CustomerPhone: strings.TrimSpace(in.CustomerPhone),
				UserID:        in.UserID,
				Type:          typ,
				Observation:   strings.TrimSpace(in.Observation),
				Items:         items,
				Discount:      discount,
				DeliveryFee:   fee,
				PaymentMethod: in.PaymentMethod,
				Total:         domain.ComputeTotal(items, typ, fee, discount),
				Status:        domain.StatusPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if typ == domain.OrderTypeDineIn {
				o.TableNumber = strings.TrimSpace(in.TableNumber)
			} else {
				o.Address = strings.TrimSpace(in.Address)
			}
			if coupon != nil {
				o.CouponCode = coupon.Code
			}

			rec := models.OrderFromDomain(o)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			if err := recordChange(tx, t.Slug, EntityOrders, o.ID, ActionInsert, now); err != nil {
				return err
			}
			if err := decrementStock(tx, items, products); err != nil {
				return err
			}
			if storefront {
				if err := upsertCustomer(tx, o); err != nil {
					return err
				}
			}
			if coupon != nil {
				if err := s.Coupons.incrementUsageTx(tx, coupon.ID); err != nil {
					return err
				}
			}
			if s.Notifications != nil {
				n, err := s.Notifications.createTx(tx, t.Slug, NotifOrder,
					fmt.Sprintf("Novo pedido #%d", o.OrderNumber),
					fmt.Sprintf("%s - %s", o.CustomerName, money(o.Total)))
				if err != nil {
					return err
				}
				notif = &n
			}
			placed = o
			return nil
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		utils.InfoLogger.WithFields(logrus.Fields{"tenant": t.Slug, "attempt": attempt + 1}).Warn("order number taken, retrying")
	}
	if err != nil {
		return domain.Order{}, err
	}
	if notif != nil {
		s.Notifications.Announce(*notif)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"tenant":   t.Slug,
		"order_id": placed.ID,
		"number":   placed.OrderNumber,
		"total":    placed.Total.StringFixed(2),
	}).Info("order placed")
	return placed, nil
}

// decrementStock -> stok hanya dihitung untuk produk yang stoknya > 0;
// habis di 0 dan produk jadi out_of_stock. The write is relative to the
// stored value, never to the snapshot read by priceCart.
func decrementStock(tx *gorm.DB, items []domain.LineItem, products map[string]models.Product) error {
	sold := make(map[string]int)
	for _, it := range items {
		sold[it.ProductID] += it.Quantity
	}
	for id, qty := range sold {
		if products[id].Stock <= 0 {
			continue
		}
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock > 0", id).
			Update("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", qty, qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := tx.Model(&models.Product{}).
			Where("id = ? AND stock = 0", id).
			Update("availability", string(domain.OutOfStock)).Error; err != nil {
			return err
		}
	}
	return nil
}

func upsertCustomer(tx *gorm.DB, o domain.Order) error {
	phone := domain.DigitsOnly(o.CustomerPhone)
	if phone == "" {
		return nil
	}
	at := o.CreatedAt
	var c models.Customer
	err := tx.Where("tenant_slug = ? AND whatsapp = ?", o.TenantSlug, phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Customer{
			ID:            uuid.NewString(),
			TenantSlug:    o.TenantSlug,
			WhatsApp:      phone,
			Name:          o.CustomerName,
			Address:       o.Address,
			TotalOrders:   1,
			TotalSpent:    o.Total,
			LastOrderDate: &at,
			CreatedAt:     at,
			UpdatedAt:     at,
		}).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"name":            o.CustomerName,
		"total_orders":    gorm.Expr("total_orders + 1"),
		"total_spent":     gorm.Expr("total_spent + ?", o.Total),
		"last_order_date": at,
		"updated_at":      at,
	}
	if o.Address != "" {
		updates["address"] = o.Address
	}
	return tx.Model(&models.Customer{}).Where("id = ?", c.ID).Updates(updates).Error
}

// Customers -> daftar customer tenant, total belanja terbesar dulu
func (s *OrderService) Customers(ctx context.Context, tenant string) ([]domain.Customer, error) {
	var recs []models.Customer
	if err := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant).
		Order("total_spent DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}
