package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/printing"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

// ReceiptController mencetak comanda (tiket dapur) per order atau per bill.
type ReceiptController struct {
	Catalog *services.CatalogService
	Store   *services.OrderStore
	Kitchen *kitchen.Registry
}

func NewReceiptController(catalog *services.CatalogService, store *services.OrderStore, reg *kitchen.Registry) *ReceiptController {
	return &ReceiptController{Catalog: catalog, Store: store, Kitchen: reg}
}

// OrderTicket -> ?format=pdf, default teks polos untuk printer termal
func (rc *ReceiptController) OrderTicket(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := rc.Catalog.Tenant(ctx, tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	o, err := rc.Store.GetOrder(ctx, t.Slug, c.Param("order_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	rc.render(c, printing.FromOrder(t, o))
}

// BillTicket prints every order of the bill holding order_id.
func (rc *ReceiptController) BillTicket(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := rc.Catalog.Tenant(ctx, tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	e, err := rc.Kitchen.Engine(ctx, t.Slug)
	if err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return
	}
	bill, ok := e.BillFor(c.Param("order_id"))
	if !ok {
		respondErr(c, kitchen.ErrOrderNotFound)
		return
	}
	rc.render(c, printing.FromBill(t, bill))
}

func (rc *ReceiptController) render(c *gin.Context, tk printing.Ticket) {
	if c.Query("format") != "pdf" {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(tk.Text()))
		return
	}
	var buf bytes.Buffer
	if err := printing.TicketPDF(&buf, tk); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="comanda-%d.pdf"`, tk.Number))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
