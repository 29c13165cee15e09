package models

import (
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ToDomain maps the stored order, filling defaults for legacy rows.
func (o Order) ToDomain() domain.Order {
	typ, err := domain.ParseOrderType(o.Type)
	if err != nil {
		typ = domain.OrderTypeDelivery
		if strings.TrimSpace(o.TableNumber) != "" {
			typ = domain.OrderTypeDineIn
		}
	}
	status, err := domain.ParseStatus(o.Status)
	if err != nil {
		status = domain.StatusPending
	}
	items := domain.CloneItems(o.Items)
	for i := range items {
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	out := domain.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		TenantSlug:    o.TenantSlug,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerWhatsapp,
		Type:          typ,
		TableNumber:   o.TableNumber,
		Address:       o.Address,
		Observation:   o.Observation,
		Items:         items,
		CouponCode:    o.CouponCode,
		Discount:      o.DiscountApplied,
		DeliveryFee:   o.DeliveryFee,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Status:        status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.UserID != nil {
		out.UserID = *o.UserID
	}
	return out
}

func OrderFromDomain(o domain.Order) Order {
	return Order{
		ID:               o.ID,
		TenantSlug:       o.TenantSlug,
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		CustomerWhatsapp: o.CustomerPhone,
		UserID:           optional(o.UserID),
		Type:             string(o.Type),
		TableNumber:      o.TableNumber,
		Address:          o.Address,
		Observation:      o.Observation,
		Items:            datatypes.NewJSONSlice(domain.CloneItems(o.Items)),
		CouponCode:       o.CouponCode,
		DiscountApplied:  o.Discount,
		DeliveryFee:      o.DeliveryFee,
		PaymentMethod:    o.PaymentMethod,
		Total:            o.Total,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func (p Product) ToDomain() domain.Product {
	avail := domain.Availability(p.Availability)
	switch avail {
	case domain.Available, domain.LowStock, domain.OutOfStock:
	default:
		avail = domain.Available
	}
	sides := append([]domain.Side{}, p.Sides...)
	out := domain.Product{
		ID:            p.ID,
		TenantSlug:    p.TenantSlug,
		Name:          p.Name,
		Price:         p.Price,
		Category:      p.Category,
		Description:   p.Description,
		Image:         p.Image,
		PrepTime:      p.PrepTime,
		Rating:        p.Rating,
		IsVegan:       p.IsVegan,
		IsCombo:       p.IsCombo,
		IsHighlighted: p.IsHighlighted,
		Availability:  avail,
		Stock:         p.Stock,
		Sides:         sides,
	}
	if p.InventoryID != nil {
		out.InventoryID = *p.InventoryID
	}
	return out
}

func ProductFromDomain(p domain.Product) Product {
	avail := string(p.Availability)
	if avail == "" {
		avail = string(domain.Available)
	}
	return Product{
		ID:            p.ID,
		TenantSlug:    p.TenantSlug,
		Name:          p.Name,
		Price:         p.Price,
		Category:      p.Category,
		Description:   p.Description,
		Image:         p.Image,
		PrepTime:      p.PrepTime,
		Rating:        p.Rating,
		IsVegan:       p.IsVegan,
		IsCombo:       p.IsCombo,
		IsHighlighted: p.IsHighlighted,
		Availability:  avail,
		InventoryID:   optional(p.InventoryID),
		Stock:         p.Stock,
		Sides:         datatypes.NewJSONSlice(append([]domain.Side{}, p.Sides...)),
	}
}

// ToDomain -> tenant plus kategori menu
func (t Tenant) ToDomain(categories []MenuCategory) domain.Tenant {
	width := t.PrinterWidth
	if width != 58 && width != 80 {
		width = 80
	}
	out := domain.Tenant{
		Slug:            t.Slug,
		Name:            t.Name,
		Logo:            t.Logo,
		WhatsApp:        t.WhatsApp,
		PixKey:          t.PixKey,
		PaymentLink:     t.PaymentLink,
		DeliveryFee:     t.DeliveryFee,
		DeliveryTime:    t.DeliveryTime,
		ThemeColor:      t.ThemeColor,
		Address:         t.Address,
		Instagram:       t.Instagram,
		CardMachineFee:  t.CardMachineFee,
		IsOpen:          t.IsOpen,
		OperatingHours:  t.OperatingHours.Data(),
		HolidayClosures: append([]string{}, t.HolidayClosures...),
		Categories:      make([]domain.Category, 0, len(categories)),
		Printer: domain.PrinterSettings{
			Width:      width,
			AutoPrint:  t.AutoPrint,
			IPAddress:  t.PrinterIP,
			HeaderText: t.HeaderText,
			FooterText: t.FooterText,
		},
	}
	if out.OperatingHours == nil {
		out.OperatingHours = map[string]domain.BusinessHours{}
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, domain.Category{ID: c.ID, Name: c.Name, Icon: c.Icon})
	}
	return out
}

func TenantFromDomain(t domain.Tenant) Tenant {
	return Tenant{
		Slug:            t.Slug,
		Name:            t.Name,
		Logo:            t.Logo,
		WhatsApp:        t.WhatsApp,
		PixKey:          t.PixKey,
		PaymentLink:     t.PaymentLink,
		DeliveryFee:     t.DeliveryFee,
		DeliveryTime:    t.DeliveryTime,
		ThemeColor:      t.ThemeColor,
		Address:         t.Address,
		Instagram:       t.Instagram,
		CardMachineFee:  t.CardMachineFee,
		IsOpen:          t.IsOpen,
		OperatingHours:  datatypes.NewJSONType(t.OperatingHours),
		HolidayClosures: datatypes.NewJSONSlice(append([]string{}, t.HolidayClosures...)),
		PrinterWidth:    t.Printer.Width,
		AutoPrint:       t.Printer.AutoPrint,
		PrinterIP:       t.Printer.IPAddress,
		HeaderText:      t.Printer.HeaderText,
		FooterText:      t.Printer.FooterText,
	}
}

func (i InventoryItem) ToDomain() domain.InventoryItem {
	cat := domain.InventoryCategory(i.Category)
	switch cat {
	case domain.InventoryProteins, domain.InventoryDrinks, domain.InventorySupplies, domain.InventoryOther:
	default:
		cat = domain.InventoryOther
	}
	unit := i.Unit
	if unit == "" {
		unit = "un"
	}
	return domain.InventoryItem{
		ID:         i.ID,
		TenantSlug: i.TenantSlug,
		Name:       i.Name,
		CurrentQty: i.CurrentQty,
		MinQty:     i.MinQty,
		Unit:       unit,
		Category:   cat,
		CostPrice:  i.CostPrice,
	}
}

func InventoryFromDomain(i domain.InventoryItem) InventoryItem {
	return InventoryItem{
		ID:         i.ID,
		TenantSlug: i.TenantSlug,
		Name:       i.Name,
		CurrentQty: i.CurrentQty,
		MinQty:     i.MinQty,
		Unit:       i.Unit,
		Category:   string(i.Category),
		CostPrice:  i.CostPrice,
	}
}

func (w WasteRecord) ToDomain() domain.WasteRecord {
	return domain.WasteRecord{
		ID:          w.ID,
		TenantSlug:  w.TenantSlug,
		InventoryID: w.InventoryID,
		ItemName:    w.ItemName,
		Quantity:    w.Quantity,
		Unit:        w.Unit,
		CostValue:   w.CostValue,
		Reason:      w.Reason,
		Date:        w.Date,
	}
}

func (c Coupon) ToDomain() domain.Coupon {
	return domain.Coupon{
		ID:            c.ID,
		TenantSlug:    c.TenantSlug,
		Code:          c.Code,
		DiscountValue: c.DiscountValue,
		MaxUses:       c.MaxUses,
		CurrentUses:   c.CurrentUses,
		IsActive:      c.IsActive,
		UserID:        deref(c.UserID),
		CustomerEmail: deref(c.CustomerEmail),
		CustomerPhone: deref(c.CustomerPhone),
	}
}

func CouponFromDomain(c domain.Coupon) Coupon {
	return Coupon{
		ID:            c.ID,
		TenantSlug:    c.TenantSlug,
		Code:          strings.ToUpper(strings.TrimSpace(c.Code)),
		DiscountValue: c.DiscountValue,
		MaxUses:       c.MaxUses,
		CurrentUses:   c.CurrentUses,
		IsActive:      c.IsActive,
		UserID:        optional(c.UserID),
		CustomerEmail: optional(c.CustomerEmail),
		CustomerPhone: optional(c.CustomerPhone),
	}
}

func (c Customer) ToDomain() domain.Customer {
	spent := c.TotalSpent
	if spent.IsNegative() {
		spent = decimal.Zero
	}
	return domain.Customer{
		ID:            c.ID,
		TenantSlug:    c.TenantSlug,
		Name:          c.Name,
		WhatsApp:      c.WhatsApp,
		Email:         c.Email,
		Address:       c.Address,
		TotalOrders:   c.TotalOrders,
		TotalSpent:    spent,
		LastOrderDate: c.LastOrderDate,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
