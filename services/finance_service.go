package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionIn  = "in"
	TransactionOut = "out"
)

var (
	ErrMonthClosed         = errors.New("month already closed")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrFixedCostNotFound   = errors.New("fixed cost not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

var (
	fallbackCMVRate = decimal.RequireFromString("0.35")
	breakEvenMargin = decimal.RequireFromString("0.45")
	hundred         = decimal.NewFromInt(100)
)

type Payments struct {
	Pix   decimal.Decimal `json:"pix"`
	Card  decimal.Decimal `json:"card"`
	Cash  decimal.Decimal `json:"cash"`
	Other decimal.Decimal `json:"other"`
}

// DRE -> laporan laba rugi sederhana untuk satu periode
type DRE struct {
	Revenue        decimal.Decimal `json:"revenue"`
	CMV            decimal.Decimal `json:"cmv"`
	Taxes          decimal.Decimal `json:"taxes"`
	FixedCosts     decimal.Decimal `json:"fixed_costs"`
	ManualOut      decimal.Decimal `json:"manual_out"`
	ManualIn       decimal.Decimal `json:"manual_in"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	Margin         decimal.Decimal `json:"margin"`
	BreakEven      decimal.Decimal `json:"break_even"`
	OrdersCount    int             `json:"orders_count"`
	Payments       Payments        `json:"payments"`
	HasPaymentData bool            `json:"has_payment_data"`
}

type ChannelSplit struct {
	Delivery decimal.Decimal `json:"delivery"`
	Local    decimal.Decimal `json:"local"`
}

type ProductQty struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ChartData struct {
	SalesByHour         []decimal.Decimal `json:"sales_by_hour"`
	Hours               []string          `json:"hours"`
	SalesByChannel      ChannelSplit      `json:"sales_by_channel"`
	TopProducts         []ProductQty      `json:"top_products"`
	CategoryPercentages []CategoryCount   `json:"category_percentages"`
}

func finishedOnly(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.StatusFinished {
			out = append(out, o)
		}
	}
	return out
}

// BuildDRE computes the income statement over the finished orders.
// Items linked to an inventory item cost its cost price; others are
// estimated at 35% of the unit price.
func BuildDRE(orders []domain.Order, inventory []domain.InventoryItem, fixed []models.FixedCost, manual []models.ManualTransaction, cardFeePct decimal.Decimal) DRE {
	costs := make(map[string]decimal.Decimal, len(inventory))
	for _, inv := range inventory {
		costs[inv.ID] = inv.CostPrice
	}

	d := DRE{}
	for _, o := range finishedOnly(orders) {
		d.OrdersCount++
		d.Revenue = d.Revenue.Add(o.Total)
		for _, it := range o.Items {
			qty := decimal.NewFromInt(int64(it.Quantity))
			if cost, ok := costs[it.InventoryID]; ok && it.InventoryID != "" {
				d.CMV = d.CMV.Add(cost.Mul(qty))
			} else {
				d.CMV = d.CMV.Add(it.UnitPrice.Mul(fallbackCMVRate).Mul(qty))
			}
		}
		if o.PaymentMethod != "" {
			d.HasPaymentData = true
		}
		switch o.PaymentMethod {
		case "pix":
			d.Payments.Pix = d.Payments.Pix.Add(o.Total)
		case "card", "delivery_card":
			d.Payments.Card = d.Payments.Card.Add(o.Total)
		case "cash":
			d.Payments.Cash = d.Payments.Cash.Add(o.Total)
		default:
			d.Payments.Other = d.Payments.Other.Add(o.Total)
		}
	}
	if !d.HasPaymentData {
		d.Payments = Payments{Other: d.Payments.Other}
	}

	d.Taxes = d.Revenue.Mul(cardFeePct).Div(hundred)
	for _, c := range fixed {
		d.FixedCosts = d.FixedCosts.Add(c.Amount)
	}
	for _, t := range manual {
		if t.Type == TransactionIn {
			d.ManualIn = d.ManualIn.Add(t.Amount)
			continue
		}
		d.ManualOut = d.ManualOut.Add(t.Amount)
	}
	d.TotalExpenses = d.CMV.Add(d.Taxes).Add(d.FixedCosts).Add(d.ManualOut)
	d.NetProfit = d.Revenue.Sub(d.TotalExpenses)
	if d.Revenue.IsPositive() {
		d.Margin = d.NetProfit.Div(d.Revenue).Mul(hundred).Round(2)
	}
	if d.FixedCosts.IsPositive() {
		d.BreakEven = d.FixedCosts.Div(breakEvenMargin).Round(2)
	}

	d.CMV = d.CMV.Round(2)
	d.Taxes = d.Taxes.Round(2)
	d.TotalExpenses = d.TotalExpenses.Round(2)
	d.NetProfit = d.NetProfit.Round(2)
	return d
}

// BuildCharts -> data grafik dari order finished. Jam pakai zona waktu loc.
func BuildCharts(orders []domain.Order, loc *time.Location) ChartData {
	if loc == nil {
		loc = time.Local
	}
	cd := ChartData{
		SalesByHour: make([]decimal.Decimal, 24),
		Hours:       make([]string, 24),
	}
	for h := 0; h < 24; h++ {
		cd.SalesByHour[h] = decimal.Zero
		cd.Hours[h] = fmt.Sprintf("%dh", h)
	}
	products := make(map[string]int)
	categories := make(map[string]int)
	for _, o := range finishedOnly(orders) {
		h := o.CreatedAt.In(loc).Hour()
		cd.SalesByHour[h] = cd.SalesByHour[h].Add(o.Total)
		if o.Type == domain.OrderTypeDelivery {
			cd.SalesByChannel.Delivery = cd.SalesByChannel.Delivery.Add(o.Total)
		} else {
			cd.SalesByChannel.Local = cd.SalesByChannel.Local.Add(o.Total)
		}
		for _, it := range o.Items {
			if it.Category != "" {
				categories[it.Category] += it.Quantity
			}
			if it.Name != "" {
				products[it.Name] += it.Quantity
			}
		}
	}

	cd.TopProducts = make([]ProductQty, 0, len(products))
	for name, qty := range products {
		cd.TopProducts = append(cd.TopProducts, ProductQty{Name: name, Qty: qty})
	}
	sort.Slice(cd.TopProducts, func(i, j int) bool {
		if cd.TopProducts[i].Qty != cd.TopProducts[j].Qty {
			return cd.TopProducts[i].Qty > cd.TopProducts[j].Qty
		}
		return cd.TopProducts[i].Name < cd.TopProducts[j].Name
	})
	if len(cd.TopProducts) > 5 {
		cd.TopProducts = cd.TopProducts[:5]
	}

	cd.CategoryPercentages = make([]CategoryCount, 0, len(categories))
	for label, n := range categories {
		cd.CategoryPercentages = append(cd.CategoryPercentages, CategoryCount{Label: label, Count: n})
	}
	sort.Slice(cd.CategoryPercentages, func(i, j int) bool {
		return cd.CategoryPercentages[i].Label < cd.CategoryPercentages[j].Label
	})
	return cd
}

type FinanceReport struct {
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	DRE    DRE             `json:"dre"`
	Charts ChartData       `json:"charts"`
	CRM    CustomerReport  `json:"crm"`
	Tenant string          `json:"tenant"`
	Fee    decimal.Decimal `json:"card_machine_fee"`
}

type FinanceService struct {
	DB       *gorm.DB
	Orders   *OrderStore
	Now      func() time.Time
	Location *time.Location
}

func NewFinanceService(db *gorm.DB, orders *OrderStore) *FinanceService {
	return &FinanceService{DB: db, Orders: orders, Now: time.Now, Location: time.Local}
}

func (s *FinanceService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// Report builds DRE, chart data and CRM for [from, to). Zero bounds mean
// the current month.
func (s *FinanceService) Report(ctx context.Context, tenant string, from, to time.Time) (FinanceReport, error) {
	if from.IsZero() || to.IsZero() {
		now := s.now()
		from, to = MonthRange(now.Year(), now.Month(), now.Location())
	}
	t, err := loadTenant(s.DB.WithContext(ctx), tenant)
	if err != nil {
		return FinanceReport{}, err
	}
	orders, err := s.Orders.ListOrders(ctx, tenant, from, to, "")
	if err != nil {
		return FinanceReport{}, err
	}
	var invRecs []models.InventoryItem
	if err := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant).Find(&invRecs).Error; err != nil {
		return FinanceReport{}, err
	}
	inventory := make([]domain.InventoryItem, 0, len(invRecs))
	for _, r := range invRecs {
		inventory = append(inventory, r.ToDomain())
	}
	fixed, err := s.FixedCosts(ctx, tenant)
	if err != nil {
		return FinanceReport{}, err
	}
	manual, err := s.Transactions(ctx, tenant, from, to)
	if err != nil {
		return FinanceReport{}, err
	}

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return FinanceReport{
		From:   from,
		To:     to,
		Tenant: t.Name,
		Fee:    t.CardMachineFee,
		DRE:    BuildDRE(orders, inventory, fixed, manual, t.CardMachineFee),
		Charts: BuildCharts(orders, loc),
		CRM:    BuildCustomerReport(orders, s.now()),
	}, nil
}

func (s *FinanceService) Transactions(ctx context.Context, tenant string, from, to time.Time) ([]models.ManualTransaction, error) {
	q := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}
	var out []models.ManualTransaction
	err := q.Order("date DESC").Find(&out).Error
	return out, err
}

func (s *FinanceService) AddTransaction(ctx context.Context, tenant string, t models.ManualTransaction) (models.ManualTransaction, error) {
	if !t.Amount.IsPositive() {
		return t, ErrInvalidAmount
	}
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if t.Type != TransactionIn {
		t.Type = TransactionOut
	}
	if t.Category == "" {
		t.Category = "Outros"
	}
	t.ID = uuid.NewString()
	t.TenantSlug = tenant
	t.CreatedAt = s.now()
	if t.Date.IsZero() {
		t.Date = t.CreatedAt
	}
	return t, s.DB.WithContext(ctx).Create(&t).Error
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.ManualTransaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *FinanceService) FixedCosts(ctx context.Context, tenant string) ([]models.FixedCost, error) {
	var out []models.FixedCost
	err := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant).Order("due_day ASC, name ASC").Find(&out).Error
	return out, err
}

// SaveFixedCost creates when c.ID is empty, otherwise updates.
func (s *FinanceService) SaveFixedCost(ctx context.Context, tenant string, c models.FixedCost) (models.FixedCost, error) {
	if !c.Amount.IsPositive() {
		return c, ErrInvalidAmount
	}
	c.TenantSlug = tenant
	now := s.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt, c.UpdatedAt = now, now
		return c, s.DB.WithContext(ctx).Create(&c).Error
	}
	res := s.DB.WithContext(ctx).Model(&models.FixedCost{}).
		Where("id = ? AND tenant_slug = ?", c.ID, tenant).
		Updates(map[string]interface{}{"name": c.Name, "amount": c.Amount, "due_day": c.DueDay, "updated_at": now})
	if res.Error != nil {
		return c, res.Error
	}
	if res.RowsAffected == 0 {
		return c, ErrFixedCostNotFound
	}
	var out models.FixedCost
	err := s.DB.WithContext(ctx).Where("id = ?", c.ID).First(&out).Error
	return out, err
}

func (s *FinanceService) DeleteFixedCost(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.FixedCost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFixedCostNotFound
	}
	return nil
}

// CloseMonth -> simpan snapshot DRE bulan berjalan. Satu kali per bulan.
func (s *FinanceService) CloseMonth(ctx context.Context, tenant string) (models.FinancialSnapshot, error) {
	now := s.now()
	from, to := MonthRange(now.Year(), now.Month(), now.Location())
	report, err := s.Report(ctx, tenant, from, to)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}
	details, err := json.Marshal(report.DRE)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}
	snap := models.FinancialSnapshot{
		ID:          uuid.NewString(),
		TenantSlug:  tenant,
		Month:       int(now.Month()),
		Year:        now.Year(),
		Revenue:     report.DRE.Revenue,
		Expenses:    report.DRE.TotalExpenses,
		NetProfit:   report.DRE.NetProfit,
		OrdersCount: report.DRE.OrdersCount,
		Details:     datatypes.JSON(details),
		CreatedAt:   now,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.FinancialSnapshot{}).
			Where("tenant_slug = ? AND month = ? AND year = ?", tenant, snap.Month, snap.Year).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrMonthClosed
		}
		return tx.Create(&snap).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrMonthClosed
	}
	return snap, err
}

// History -> 12 snapshot terakhir, terbaru dulu
func (s *FinanceService) History(ctx context.Context, tenant string) ([]models.FinancialSnapshot, error) {
	var out []models.FinancialSnapshot
	err := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant).
		Order("year DESC, month DESC").Limit(12).Find(&out).Error
	return out, err
}

// SalesChart renders sales by hour as a PNG bar chart.
func SalesChart(w io.Writer, title string, cd ChartData) error {
	bars := make([]chart.Value, 0, len(cd.SalesByHour))
	top := 1.0
	for i, v := range cd.SalesByHour {
		f := v.InexactFloat64()
		if f > top {
			top = f
		}
		bars = append(bars, chart.Value{Label: cd.Hours[i], Value: f})
	}
	graph := chart.BarChart{
		Title:      title,
		Width:      1200,
		Height:     480,
		BarWidth:   30,
		BarSpacing: 15,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
