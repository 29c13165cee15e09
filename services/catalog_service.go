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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidProduct   = errors.New("product name and price required")
)

// Menu is the public catalogue of one tenant.
type Menu struct {
	Tenant   domain.Tenant    `json:"tenant"`
	Products []domain.Product `json:"products"`
}

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

func (s *CatalogService) categories(tx *gorm.DB, tenant string) ([]models.MenuCategory, error) {
	var cats []models.MenuCategory
	err := tx.Where("tenant_slug = ?", tenant).Order("sort_order ASC, name ASC").Find(&cats).Error
	return cats, err
}

func (s *CatalogService) Tenant(ctx context.Context, slug string) (domain.Tenant, error) {
	db := s.DB.WithContext(ctx)
	var rec models.Tenant
	err := db.Where("slug = ?", slug).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		return domain.Tenant{}, err
	}
	cats, err := s.categories(db, slug)
	if err != nil {
		return domain.Tenant{}, err
	}
	return rec.ToDomain(cats), nil
}

// Menu -> tenant + produk. Produk out_of_stock disembunyikan kalau public.
func (s *CatalogService) Menu(ctx context.Context, slug string, public bool) (Menu, error) {
	t, err := s.Tenant(ctx, slug)
	if err != nil {
		return Menu{}, err
	}
	q := s.DB.WithContext(ctx).Where("tenant_slug = ?", slug)
	if public {
		q = q.Where("availability <> ?", string(domain.OutOfStock))
	}
	var recs []models.Product
	if err := q.Order("is_highlighted DESC, category ASC, name ASC").Find(&recs).Error; err != nil {
		return Menu{}, err
	}
	m := Menu{Tenant: t, Products: make([]domain.Product, 0, len(recs))}
	for _, r := range recs {
		m.Products = append(m.Products, r.ToDomain())
	}
	return m, nil
}

// CreateTenant is used by seeding and first-run registration.
func (s *CatalogService) CreateTenant(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
	if t.Slug == "" || strings.TrimSpace(t.Name) == "" {
		return domain.Tenant{}, fmt.Errorf("tenant slug and name required")
	}
	if t.Printer.Width == 0 {
		t.Printer.Width = 80
	}
	if t.OperatingHours == nil {
		t.OperatingHours = map[string]domain.BusinessHours{}
	}
	rec := models.TenantFromDomain(t)
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Tenant{}, err
	}
	return rec.ToDomain(nil), nil
}

// TenantSettings is a partial update; nil fields are left alone.
type TenantSettings struct {
	Name            *string                         `json:"name"`
	Logo            *string                         `json:"logo"`
	WhatsApp        *string                         `json:"whatsapp"`
	PixKey          *string                         `json:"pix_key"`
	PaymentLink     *string                         `json:"payment_link"`
	DeliveryFee     *decimal.Decimal                `json:"delivery_fee"`
	DeliveryTime    *string                         `json:"delivery_time"`
	ThemeColor      *string                         `json:"theme_color"`
	Address         *string                         `json:"address"`
	Instagram       *string                         `json:"instagram"`
	CardMachineFee  *decimal.Decimal                `json:"card_machine_fee"`
	IsOpen          *bool                           `json:"is_open"`
	OperatingHours  map[string]domain.BusinessHours `json:"operating_hours"`
	HolidayClosures []string                        `json:"holiday_closures"`
	Printer         *domain.PrinterSettings         `json:"printer"`
}

func (s *CatalogService) UpdateSettings(ctx context.Context, slug string, in TenantSettings) (domain.Tenant, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setStr("name", in.Name)
	setStr("logo", in.Logo)
	setStr("whatsapp", in.WhatsApp)
	setStr("pix_key", in.PixKey)
	setStr("payment_link", in.PaymentLink)
	setStr("delivery_time", in.DeliveryTime)
	setStr("theme_color", in.ThemeColor)
	setStr("address", in.Address)
	setStr("instagram", in.Instagram)
	if in.DeliveryFee != nil {
		if in.DeliveryFee.IsNegative() {
			return domain.Tenant{}, ErrInvalidAmount
		}
		updates["delivery_fee"] = *in.DeliveryFee
	}
	if in.CardMachineFee != nil {
		if in.CardMachineFee.IsNegative() || in.CardMachineFee.GreaterThan(hundred) {
			return domain.Tenant{}, ErrInvalidAmount
		}
		updates["card_machine_fee"] = *in.CardMachineFee
	}
	if in.IsOpen != nil {
		updates["is_open"] = *in.IsOpen
	}
	if in.OperatingHours != nil {
		updates["operating_hours"] = datatypes.NewJSONType(in.OperatingHours)
	}
	if in.HolidayClosures != nil {
		updates["holiday_closures"] = datatypes.NewJSONSlice(in.HolidayClosures)
	}
	if p := in.Printer; p != nil {
		width := p.Width
		if width != 58 {
			width = 80
		}
		updates["printer_width"] = width
		updates["auto_print"] = p.AutoPrint
		updates["printer_ip"] = p.IPAddress
		updates["header_text"] = p.HeaderText
		updates["footer_text"] = p.FooterText
	}

	res := s.DB.WithContext(ctx).Model(&models.Tenant{}).Where("slug = ?", slug).Updates(updates)
	if res.Error != nil {
		return domain.Tenant{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Tenant{}, ErrTenantNotFound
	}
	return s.Tenant(ctx, slug)
}

func validProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" || p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	for _, side := range p.Sides {
		if strings.TrimSpace(side.Name) == "" || side.Price.IsNegative() {
			return fmt.Errorf("%w: invalid side", ErrInvalidProduct)
		}
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, tenant string, p domain.Product) (domain.Product, error) {
	if err := validProduct(p); err != nil {
		return domain.Product{}, err
	}
	p.ID = uuid.NewString()
	p.TenantSlug = tenant
	rec := models.ProductFromDomain(p)
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Product{}, err
	}
	return rec.ToDomain(), nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, tenant, id string, p domain.Product) (domain.Product, error) {
	if err := validProduct(p); err != nil {
		return domain.Product{}, err
	}
	var out models.Product
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_slug = ?", id, tenant).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		p.ID, p.TenantSlug = id, tenant
		rec := models.ProductFromDomain(p)
		rec.CreatedAt = out.CreatedAt
		if err := tx.Select("*").Omit("created_at").Save(&rec).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return domain.Product{}, err
	}
	return out.ToDomain(), nil
}

// SetAvailability -> toggle "Esgotado" dari dashboard
func (s *CatalogService) SetAvailability(ctx context.Context, tenant, id string, a domain.Availability) error {
	switch a {
	case domain.Available, domain.LowStock, domain.OutOfStock:
	default:
		return fmt.Errorf("unknown availability %q", a)
	}
	res := s.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND tenant_slug = ?", id, tenant).
		Update("availability", string(a))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *CatalogService) Categories(ctx context.Context, tenant string) ([]domain.Category, error) {
	cats, err := s.categories(s.DB.WithContext(ctx), tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.Category{ID: c.ID, Name: c.Name, Icon: c.Icon})
	}
	return out, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, tenant string, c domain.Category) (domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return domain.Category{}, fmt.Errorf("category name required")
	}
	rec := models.MenuCategory{ID: uuid.NewString(), TenantSlug: tenant, Name: c.Name, Icon: c.Icon}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.MenuCategory{}).Where("tenant_slug = ? AND name = ?", tenant, c.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrCategoryExists
		}
		var maxOrder int
		if err := tx.Model(&models.MenuCategory{}).Where("tenant_slug = ?", tenant).
			Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		rec.SortOrder = maxOrder + 1
		return tx.Create(&rec).Error
	})
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category{ID: rec.ID, Name: rec.Name, Icon: rec.Icon}, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.MenuCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
