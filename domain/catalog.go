package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Availability string

const (
	Available  Availability = "available"
	LowStock   Availability = "low_stock"
	OutOfStock Availability = "out_of_stock"
)

type Product struct {
	ID            string          `json:"id"`
	TenantSlug    string          `json:"tenant_slug"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	PrepTime      string          `json:"prep_time"`
	Rating        float64         `json:"rating"`
	IsVegan       bool            `json:"is_vegan"`
	IsCombo       bool            `json:"is_combo"`
	IsHighlighted bool            `json:"is_highlighted"`
	Availability  Availability    `json:"availability"`
	InventoryID   string          `json:"inventory_id,omitempty"`
	Stock         int             `json:"stock"`
	Sides         []Side          `json:"sides"`
}

// FindSide -> cari side berdasarkan nama, harga diambil dari katalog
func (p Product) FindSide(name string) (Side, bool) {
	for _, s := range p.Sides {
		if s.Name == name {
			return s, true
		}
	}
	return Side{}, false
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type BusinessHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

type PrinterSettings struct {
	Width      int    `json:"printer_width"`
	AutoPrint  bool   `json:"auto_print"`
	IPAddress  string `json:"ip_address,omitempty"`
	HeaderText string `json:"header_text,omitempty"`
	FooterText string `json:"footer_text,omitempty"`
}

type Tenant struct {
	Slug            string                   `json:"slug"`
	Name            string                   `json:"name"`
	Logo            string                   `json:"logo"`
	WhatsApp        string                   `json:"whatsapp"`
	PixKey          string                   `json:"pix_key"`
	PaymentLink     string                   `json:"payment_link,omitempty"`
	DeliveryFee     decimal.Decimal          `json:"delivery_fee"`
	DeliveryTime    string                   `json:"delivery_time"`
	ThemeColor      string                   `json:"theme_color"`
	Address         string                   `json:"address"`
	Instagram       string                   `json:"instagram"`
	CardMachineFee  decimal.Decimal          `json:"card_machine_fee"`
	IsOpen          bool                     `json:"is_open"`
	OperatingHours  map[string]BusinessHours `json:"operating_hours"`
	HolidayClosures []string                 `json:"holiday_closures"`
	Categories      []Category               `json:"categories"`
	Printer         PrinterSettings          `json:"printer"`
}

// IsOpenAt decides whether the store accepts orders at t (in t's location).
// Operating hours are keyed by weekday number, "0" being Sunday.
func (t Tenant) IsOpenAt(at time.Time) bool {
	if !t.IsOpen {
		return false
	}
	day := at.Format("2006-01-02")
	for _, h := range t.HolidayClosures {
		if h == day {
			return false
		}
	}
	if len(t.OperatingHours) == 0 {
		return true
	}
	hours, ok := t.OperatingHours[strconv.Itoa(int(at.Weekday()))]
	if !ok || !hours.IsOpen {
		return false
	}
	open, err1 := minutesOf(hours.Open)
	closeAt, err2 := minutesOf(hours.Close)
	if err1 != nil || err2 != nil {
		return false
	}
	now := at.Hour()*60 + at.Minute()
	if closeAt <= open {
		// buka lewat tengah malam, mis. 18:00 - 02:00
		return now >= open || now < closeAt
	}
	return now >= open && now < closeAt
}

func minutesOf(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
