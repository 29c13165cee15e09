package printing

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/comanda-app/comanda/services"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	ticketFontSize = 7.0
	ticketLineH    = 3.2
	ticketMargin   = 3.0
)

// TicketPDF writes the ticket on a single roll-sized page (58 or 80 mm wide).
func TicketPDF(w io.Writer, tk Ticket) error {
	pageW := 80.0
	if tk.Width == 58 {
		pageW = 58.0
	}
	lines := tk.TextLines()
	pageH := float64(len(lines))*ticketLineH + 2*ticketMargin + 4

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(ticketMargin, ticketMargin, ticketMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Comanda #%d", tk.Number), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range lines {
		style := ""
		if emphasized(l) {
			style = "B"
		}
		pdf.SetFont("Courier", style, ticketFontSize)
		pdf.CellFormat(0, ticketLineH, tr(l), "", 1, "L", false, 0, "")
	}
	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

// emphasized -> baris item, nomor pedido dan total dicetak tebal
func emphasized(l string) bool {
	t := strings.TrimSpace(l)
	if t == "" {
		return false
	}
	return (t[0] >= '0' && t[0] <= '9') || strings.HasPrefix(t, "PEDIDO #") || strings.HasPrefix(t, "TOTAL:")
}

// FinanceReportPDF -> laporan DRE bulanan (A4) dengan grafik penjualan per jam.
func FinanceReportPDF(w io.Writer, r services.FinanceReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("DRE "+r.Tenant, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(r.Tenant), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Demonstrativo de resultado: %s a %s",
		r.From.Format("02/01/2006"), r.To.Add(-time.Second).Format("02/01/2006"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 7, tr(label), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(money(v)), "B", 1, "R", false, 0, "")
	}
	d := r.DRE
	row("Receita bruta", d.Revenue, true)
	row("(-) CMV", d.CMV, false)
	row(fmt.Sprintf("(-) Taxas de cartão (%s%%)", r.Fee.String()), d.Taxes, false)
	row("(-) Custos fixos", d.FixedCosts, false)
	row("(-) Saídas manuais", d.ManualOut, false)
	row("Total de despesas", d.TotalExpenses, true)
	row("Lucro líquido", d.NetProfit, true)
	row("Ponto de equilíbrio", d.BreakEven, false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Pagamentos", "", 1, "L", false, 0, "")
	if d.HasPaymentData {
		row("Pix", d.Payments.Pix, false)
		row("Cartão", d.Payments.Card, false)
		row("Dinheiro", d.Payments.Cash, false)
		row("Outros", d.Payments.Other, false)
	} else {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, tr("Sem forma de pagamento registrada nos pedidos."), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(r.Charts.TopProducts) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Mais vendidos", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for i, p := range r.Charts.TopProducts {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s (%d)", i+1, p.Name, p.Qty)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	var png bytes.Buffer
	if err := services.SalesChart(&png, "Vendas por hora", r.Charts); err != nil {
		return err
	}
	opt := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("sales", opt, &png)
	pdf.ImageOptions("sales", 15, pdf.GetY(), 180, 0, true, opt, 0, "")

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}
