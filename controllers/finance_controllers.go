package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/printing"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FinanceController struct {
	Finance *services.FinanceService
}

func NewFinanceController(finance *services.FinanceService) *FinanceController {
	return &FinanceController{Finance: finance}
}

func (fc *FinanceController) report(c *gin.Context) (services.FinanceReport, bool) {
	from, to, err := parseRange(c, fc.Finance.Location)
	if err != nil {
		respondErr(c, err)
		return services.FinanceReport{}, false
	}
	r, err := fc.Finance.Report(c.Request.Context(), tenantOf(c), from, to)
	if err != nil {
		respondErr(c, err)
		return services.FinanceReport{}, false
	}
	return r, true
}

// GetReport -> DRE, data grafik dan CRM. ?month=2024-03 atau ?from=&to=
func (fc *FinanceController) GetReport(c *gin.Context) {
	r, ok := fc.report(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Finance report", r)
}

func (fc *FinanceController) SalesChartPNG(c *gin.Context) {
	r, ok := fc.report(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("Vendas por hora %s", r.From.Format("01/2006"))
	if err := services.SalesChart(&buf, title, r.Charts); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (fc *FinanceController) ReportPDF(c *gin.Context) {
	r, ok := fc.report(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := printing.FinanceReportPDF(&buf, r); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="dre-%s.pdf"`, r.From.Format("2006-01")))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (fc *FinanceController) GetTransactions(c *gin.Context) {
	from, to, err := parseRange(c, fc.Finance.Location)
	if err != nil {
		respondErr(c, err)
		return
	}
	list, err := fc.Finance.Transactions(c.Request.Context(), tenantOf(c), from, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transactions", list)
}

func (fc *FinanceController) AddTransaction(c *gin.Context) {
	var body struct {
		Description string          `json:"description" binding:"required"`
		Amount      decimal.Decimal `json:"amount"`
		Type        string          `json:"type"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tx := models.ManualTransaction{
		Description: body.Description,
		Amount:      body.Amount,
		Type:        body.Type,
		Category:    body.Category,
	}
	if body.Date != "" {
		loc := fc.Finance.Location
		if loc == nil {
			loc = time.Local
		}
		d, err := time.ParseInLocation("2006-01-02", body.Date, loc)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("date must be YYYY-MM-DD"))
			return
		}
		tx.Date = d
	}
	saved, err := fc.Finance.AddTransaction(c.Request.Context(), tenantOf(c), tx)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Transaction added", saved)
}

func (fc *FinanceController) DeleteTransaction(c *gin.Context) {
	id := c.Param("transaction_id")
	if err := fc.Finance.DeleteTransaction(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction deleted", gin.H{"transaction_id": id})
}

func (fc *FinanceController) GetFixedCosts(c *gin.Context) {
	list, err := fc.Finance.FixedCosts(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Fixed costs", list)
}

// SaveFixedCost -> POST buat baru, PUT /:cost_id update
func (fc *FinanceController) SaveFixedCost(c *gin.Context) {
	var body struct {
		Name   string          `json:"name" binding:"required"`
		Amount decimal.Decimal `json:"amount"`
		DueDay int             `json:"due_day" binding:"min=0,max=31"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cost := models.FixedCost{ID: c.Param("cost_id"), Name: body.Name, Amount: body.Amount, DueDay: body.DueDay}
	saved, err := fc.Finance.SaveFixedCost(c.Request.Context(), tenantOf(c), cost)
	if err != nil {
		respondErr(c, err)
		return
	}
	code := http.StatusOK
	if cost.ID == "" {
		code = http.StatusCreated
	}
	utils.RespondJSON(c, code, "Fixed cost saved", saved)
}

func (fc *FinanceController) DeleteFixedCost(c *gin.Context) {
	id := c.Param("cost_id")
	if err := fc.Finance.DeleteFixedCost(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Fixed cost deleted", gin.H{"cost_id": id})
}

func (fc *FinanceController) CloseMonth(c *gin.Context) {
	snap, err := fc.Finance.CloseMonth(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.WithField("tenant", snap.TenantSlug).WithField("month", fmt.Sprintf("%02d/%d", snap.Month, snap.Year)).Info("month closed")
	utils.RespondJSON(c, http.StatusCreated, "Month closed", snap)
}

func (fc *FinanceController) History(c *gin.Context) {
	list, err := fc.Finance.History(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Financial history", list)
}
