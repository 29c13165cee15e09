package models

import (
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Tenant struct {
	Slug            string          `gorm:"primaryKey;type:varchar(64)"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Logo            string          `gorm:"type:varchar(255)"`
	WhatsApp        string          `gorm:"column:whatsapp;type:varchar(32)"`
	PixKey          string          `gorm:"type:varchar(255)"`
	PaymentLink     string          `gorm:"type:varchar(255)"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DeliveryTime    string          `gorm:"type:varchar(50)"`
	ThemeColor      string          `gorm:"type:varchar(20)"`
	Address         string          `gorm:"type:varchar(255)"`
	Instagram       string          `gorm:"type:varchar(100)"`
	CardMachineFee  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsOpen          bool            `gorm:"not null"`
	OperatingHours  datatypes.JSONType[map[string]domain.BusinessHours]
	HolidayClosures datatypes.JSONSlice[string]
	PrinterWidth    int    `gorm:"not null;default:80"`
	AutoPrint       bool   `gorm:"not null;default:false"`
	PrinterIP       string `gorm:"type:varchar(64)"`
	HeaderText      string `gorm:"type:varchar(255)"`
	FooterText      string `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
