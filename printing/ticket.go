package printing

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
)

// Columns per paper width, monospace.
const (
	columns58 = 32
	columns80 = 48
)

// TicketLine is one printed item.
type TicketLine struct {
	Quantity   int
	Name       string
	Amount     decimal.Decimal
	Sides      []string
	Doneness   string
	Note       string
	Additional bool
}

// Ticket is the kitchen slip ("comanda") for an order or a merged bill.
type Ticket struct {
	TenantName  string
	Header      string
	Footer      string
	Width       int
	Number      int
	At          time.Time
	Customer    string
	Type        domain.OrderType
	Table       string
	Address     string
	Observation string
	Lines       []TicketLine
	Total       decimal.Decimal
}

func newTicket(t domain.Tenant) Ticket {
	return Ticket{
		TenantName: t.Name,
		Header:     t.Printer.HeaderText,
		Footer:     t.Printer.FooterText,
		Width:      t.Printer.Width,
	}
}

// FromBill -> tiket untuk satu bill; item dari order tambahan ditandai.
func FromBill(t domain.Tenant, b domain.Bill) Ticket {
	tk := newTicket(t)
	tk.Number = b.OrderNumber
	tk.At = b.CreatedAt
	tk.Customer = b.CustomerName
	tk.Type = b.Type
	tk.Table = b.TableNumber
	tk.Address = b.Address
	tk.Observation = b.Observation
	tk.Total = b.Total
	for _, it := range b.Items {
		tk.Lines = append(tk.Lines, ticketLine(it.LineItem, it.IsAdditional))
	}
	return tk
}

func FromOrder(t domain.Tenant, o domain.Order) Ticket {
	tk := newTicket(t)
	tk.Number = o.OrderNumber
	tk.At = o.CreatedAt
	tk.Customer = o.CustomerName
	tk.Type = o.Type
	tk.Table = o.TableNumber
	tk.Address = o.Address
	tk.Observation = o.Observation
	tk.Total = o.Total
	for _, it := range o.Items {
		tk.Lines = append(tk.Lines, ticketLine(it, false))
	}
	return tk
}

func ticketLine(it domain.LineItem, additional bool) TicketLine {
	l := TicketLine{
		Quantity:   it.Quantity,
		Name:       it.Name,
		Amount:     it.Subtotal(),
		Doneness:   it.Doneness,
		Note:       it.Note,
		Additional: additional,
	}
	for _, s := range it.Sides {
		l.Sides = append(l.Sides, s.Name)
	}
	return l
}

func (tk Ticket) columns() int {
	if tk.Width == 58 {
		return columns58
	}
	return columns80
}

// TextLines renders the ticket as fixed-width text lines.
func (tk Ticket) TextLines() []string {
	cols := tk.columns()
	var out []string
	add := func(s ...string) { out = append(out, s...) }

	if h := strings.TrimSpace(tk.Header); h != "" {
		for _, l := range wrap(h, cols) {
			add(center(l, cols))
		}
	}
	add(center(strings.ToUpper(tk.TenantName), cols))
	add(center(fmt.Sprintf("PEDIDO #%d", tk.Number), cols))
	add(center(tk.At.Format("02/01/2006 15:04"), cols))
	add(strings.Repeat("=", cols))

	add("CLIENTE: " + tk.Customer)
	if tk.Type == domain.OrderTypeDelivery {
		add("TIPO: DELIVERY")
		if tk.Address != "" {
			add(wrap("END: "+tk.Address, cols)...)
		}
	} else {
		table := tk.Table
		if table == "" {
			table = "-"
		}
		add("TIPO: MESA " + table)
	}
	add(strings.Repeat("-", cols))

	for _, l := range tk.Lines {
		add(justify(fmt.Sprintf("%dx %s", l.Quantity, l.Name), money(l.Amount), cols))
		if len(l.Sides) > 0 {
			add(wrap("  + "+strings.Join(l.Sides, ", "), cols)...)
		}
		if l.Doneness != "" {
			add("  PONTO: " + strings.ToUpper(l.Doneness))
		}
		if l.Note != "" {
			add(wrap("  * Obs: "+l.Note, cols)...)
		}
		if l.Additional {
			add("  [ADICIONAL]")
		}
	}
	add(strings.Repeat("-", cols))
	if tk.Observation != "" {
		add(wrap("OBS: "+tk.Observation, cols)...)
	}
	add(right("TOTAL: "+money(tk.Total), cols))
	if f := strings.TrimSpace(tk.Footer); f != "" {
		add("")
		for _, l := range wrap(f, cols) {
			add(center(l, cols))
		}
	}
	return out
}

func (tk Ticket) Text() string {
	return strings.Join(tk.TextLines(), "\n") + "\n"
}

func money(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) }

func width(s string) int { return utf8.RuneCountInString(s) }

func center(s string, cols int) string {
	w := width(s)
	if w >= cols {
		return s
	}
	return strings.Repeat(" ", (cols-w)/2) + s
}

func right(s string, cols int) string {
	w := width(s)
	if w >= cols {
		return s
	}
	return strings.Repeat(" ", cols-w) + s
}

// justify puts left and right on one line, truncating left when needed.
func justify(left, rightText string, cols int) string {
	room := cols - width(rightText) - 1
	if width(left) > room {
		r := []rune(left)
		left = string(r[:room])
	}
	return left + strings.Repeat(" ", cols-width(left)-width(rightText)) + rightText
}

// wrap -> pecah teks per kata sesuai lebar kolom
func wrap(s string, cols int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	indent := ""
	if strings.HasPrefix(s, "  ") {
		indent = "    "
	}
	var lines []string
	cur := ""
	if strings.HasPrefix(s, "  ") {
		cur = "  "
	}
	for _, w := range words {
		switch {
		case strings.TrimSpace(cur) == "":
			cur += w
		case width(cur)+1+width(w) <= cols:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = indent + w
		}
	}
	return append(lines, cur)
}
