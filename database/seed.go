package database

import (
	"fmt"
	"io"
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// amount accepts 12, 12.5 or "12.50" in the seed file.
type amount struct{ decimal.Decimal }

func (a *amount) UnmarshalYAML(n *yaml.Node) error {
	d, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", n.Line, n.Value)
	}
	a.Decimal = d
	return nil
}

type SeedFile struct {
	Tenants []SeedTenant `yaml:"tenants"`
}

type SeedTenant struct {
	Slug            string               `yaml:"slug"`
	Name            string               `yaml:"name"`
	WhatsApp        string               `yaml:"whatsapp"`
	PixKey          string               `yaml:"pix_key"`
	PaymentLink     string               `yaml:"payment_link"`
	Address         string               `yaml:"address"`
	DeliveryFee     amount               `yaml:"delivery_fee"`
	DeliveryTime    string               `yaml:"delivery_time"`
	CardMachineFee  amount               `yaml:"card_machine_fee"`
	IsOpen          *bool                `yaml:"is_open"`
	OperatingHours  map[string]seedHours `yaml:"operating_hours"`
	HolidayClosures []string             `yaml:"holiday_closures"`
	PrinterWidth    int                  `yaml:"printer_width"`
	HeaderText      string               `yaml:"header_text"`
	FooterText      string               `yaml:"footer_text"`

	Categories []seedCategory  `yaml:"categories"`
	Inventory  []seedInventory `yaml:"inventory"`
	Products   []seedProduct   `yaml:"products"`
	Users      []seedUser      `yaml:"users"`
	Coupons    []seedCoupon    `yaml:"coupons"`
}

type seedHours struct {
	Open   string `yaml:"open"`
	Close  string `yaml:"close"`
	IsOpen bool   `yaml:"is_open"`
}

type seedCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type seedInventory struct {
	Name     string `yaml:"name"`
	Qty      amount `yaml:"qty"`
	Min      amount `yaml:"min"`
	Unit     string `yaml:"unit"`
	Category string `yaml:"category"`
	Cost     amount `yaml:"cost"`
}

type seedSide struct {
	Name  string `yaml:"name"`
	Price amount `yaml:"price"`
}

type seedProduct struct {
	Name        string     `yaml:"name"`
	Price       amount     `yaml:"price"`
	Category    string     `yaml:"category"`
	Description string     `yaml:"description"`
	PrepTime    string     `yaml:"prep_time"`
	Highlighted bool       `yaml:"highlighted"`
	Vegan       bool       `yaml:"vegan"`
	Stock       int        `yaml:"stock"`
	Inventory   string     `yaml:"inventory"`
	Sides       []seedSide `yaml:"sides"`
}

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedCoupon struct {
	Code     string `yaml:"code"`
	Discount amount `yaml:"discount"`
	MaxUses  int    `yaml:"max_uses"`
	Inactive bool   `yaml:"inactive"`
}

// SeedResult counts rows written per kind.
type SeedResult struct {
	Tenants, Categories, Inventory, Products, Users, Coupons int
}

// stableID -> id deterministik supaya seed bisa dijalankan ulang
func stableID(tenant, kind, name string) string {
	key := tenant + "/" + kind + "/" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func ParseSeed(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("parse seed: %w", err)
	}
	for i, t := range f.Tenants {
		if strings.TrimSpace(t.Slug) == "" || strings.TrimSpace(t.Name) == "" {
			return f, fmt.Errorf("parse seed: tenant #%d needs slug and name", i+1)
		}
	}
	return f, nil
}

// Seed upserts every tenant of the file. Running it twice leaves the same rows.
func Seed(db *gorm.DB, r io.Reader) (SeedResult, error) {
	f, err := ParseSeed(r)
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, t := range f.Tenants {
			if err := seedTenant(tx, t, &res); err != nil {
				return fmt.Errorf("tenant %s: %w", t.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	utils.InfoLogger.WithField("tenants", res.Tenants).WithField("products", res.Products).Info("seed applied")
	return res, nil
}

func upsert(tx *gorm.DB, v interface{}) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(v).Error
}

func seedTenant(tx *gorm.DB, t SeedTenant, res *SeedResult) error {
	hours := make(map[string]domain.BusinessHours, len(t.OperatingHours))
	for day, h := range t.OperatingHours {
		hours[day] = domain.BusinessHours{Open: h.Open, Close: h.Close, IsOpen: h.IsOpen}
	}
	open := true
	if t.IsOpen != nil {
		open = *t.IsOpen
	}
	dt := domain.Tenant{
		Slug:            t.Slug,
		Name:            t.Name,
		WhatsApp:        t.WhatsApp,
		PixKey:          t.PixKey,
		PaymentLink:     t.PaymentLink,
		Address:         t.Address,
		DeliveryFee:     t.DeliveryFee.Decimal,
		DeliveryTime:    t.DeliveryTime,
		CardMachineFee:  t.CardMachineFee.Decimal,
		IsOpen:          open,
		OperatingHours:  hours,
		HolidayClosures: t.HolidayClosures,
		Printer:         domain.PrinterSettings{Width: t.PrinterWidth, HeaderText: t.HeaderText, FooterText: t.FooterText},
	}
	rec := models.TenantFromDomain(dt)
	if rec.PrinterWidth != 58 {
		rec.PrinterWidth = 80
	}
	if err := upsert(tx, &rec); err != nil {
		return err
	}
	res.Tenants++

	for i, c := range t.Categories {
		cat := models.MenuCategory{
			ID:         stableID(t.Slug, "category", c.Name),
			TenantSlug: t.Slug,
			Name:       strings.TrimSpace(c.Name),
			Icon:       c.Icon,
			SortOrder:  i + 1,
		}
		if err := upsert(tx, &cat); err != nil {
			return err
		}
		res.Categories++
	}

	inventory := make(map[string]string, len(t.Inventory))
	for _, it := range t.Inventory {
		item := models.InventoryFromDomain(domain.InventoryItem{
			ID:         stableID(t.Slug, "inventory", it.Name),
			TenantSlug: t.Slug,
			Name:       strings.TrimSpace(it.Name),
			CurrentQty: it.Qty.Decimal,
			MinQty:     it.Min.Decimal,
			Unit:       it.Unit,
			Category:   domain.InventoryCategory(it.Category),
			CostPrice:  it.Cost.Decimal,
		})
		norm := item.ToDomain()
		item.Unit, item.Category = norm.Unit, string(norm.Category)
		if err := upsert(tx, &item); err != nil {
			return err
		}
		inventory[strings.ToLower(item.Name)] = item.ID
		res.Inventory++
	}

	for _, p := range t.Products {
		sides := make([]domain.Side, 0, len(p.Sides))
		for _, s := range p.Sides {
			sides = append(sides, domain.Side{Name: s.Name, Price: s.Price.Decimal})
		}
		dp := domain.Product{
			ID:            stableID(t.Slug, "product", p.Name),
			TenantSlug:    t.Slug,
			Name:          strings.TrimSpace(p.Name),
			Price:         p.Price.Decimal,
			Category:      p.Category,
			Description:   p.Description,
			PrepTime:      p.PrepTime,
			IsHighlighted: p.Highlighted,
			IsVegan:       p.Vegan,
			Stock:         p.Stock,
			Availability:  domain.Available,
			Sides:         sides,
		}
		if p.Inventory != "" {
			id, ok := inventory[strings.ToLower(strings.TrimSpace(p.Inventory))]
			if !ok {
				return fmt.Errorf("product %s: unknown inventory item %q", p.Name, p.Inventory)
			}
			dp.InventoryID = id
		}
		prod := models.ProductFromDomain(dp)
		if err := upsert(tx, &prod); err != nil {
			return err
		}
		res.Products++
	}

	for _, u := range t.Users {
		if err := seedUserRow(tx, t.Slug, u); err != nil {
			return err
		}
		res.Users++
	}

	for _, c := range t.Coupons {
		cp := models.CouponFromDomain(domain.Coupon{
			ID:            stableID(t.Slug, "coupon", c.Code),
			TenantSlug:    t.Slug,
			Code:          c.Code,
			DiscountValue: c.Discount.Decimal,
			MaxUses:       c.MaxUses,
			IsActive:      !c.Inactive,
		})
		if err := upsert(tx, &cp); err != nil {
			return err
		}
		res.Coupons++
	}
	return nil
}

func seedUserRow(tx *gorm.DB, tenant string, u seedUser) error {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	switch role {
	case "admin", "staff", "chef":
	default:
		return fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
	}
	if len(u.Password) < 6 {
		return fmt.Errorf("user %s: password too short", u.Email)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	user := models.User{
		ID:         stableID("", "user", email),
		TenantSlug: tenant,
		Name:       u.Name,
		Email:      email,
		Password:   string(hashed),
		Role:       role,
	}
	return upsert(tx, &user)
}
