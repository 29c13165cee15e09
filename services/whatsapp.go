package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
)

// WhatsAppNumber -> nomor digits dengan kode negara 55. Kosong kalau tidak ada digit.
func WhatsAppNumber(phone string) string {
	digits := domain.DigitsOnly(phone)
	if digits == "" {
		return ""
	}
	if len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		return digits
	}
	return "55" + digits
}

// WhatsAppLink builds a wa.me link; an empty number opens the contact picker.
func WhatsAppLink(number, text string) string {
	link := "https://wa.me/" + number
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func DispatchMessage(customer, tenant string) string {
	return fmt.Sprintf("Olá, %s! Seu pedido do %s acabou de sair para entrega e logo chegará até você. Prepare o apetite! 🛵🔥",
		strings.TrimSpace(customer), tenant)
}

// DispatchLink returns "" when the order has no usable phone.
func DispatchLink(o domain.Order, tenantName string) string {
	num := WhatsAppNumber(o.CustomerPhone)
	if num == "" {
		return ""
	}
	return WhatsAppLink(num, DispatchMessage(o.CustomerName, tenantName))
}

func money(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) }

// CheckoutMessage is the order summary the customer sends to the store.
func CheckoutMessage(t domain.Tenant, o domain.Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		line := fmt.Sprintf("%dx %s - %s", it.Quantity, it.Name, money(it.Subtotal()))
		if len(it.Sides) > 0 {
			names := make([]string, 0, len(it.Sides))
			for _, s := range it.Sides {
				names = append(names, s.Name)
			}
			line += "\n    + Acomp: " + strings.Join(names, ", ")
		}
		if it.Note != "" {
			line += " (Obs: " + it.Note + ")"
		}
		lines = append(lines, line)
	}
	items := strings.Join(lines, "\n\n")

	var b strings.Builder
	fmt.Fprintf(&b, "🔥 NOVO PEDIDO #%d - %s\n\n", o.OrderNumber, strings.ToUpper(t.Name))
	if o.Type == domain.OrderTypeDineIn {
		fmt.Fprintf(&b, "Cliente: %s - Mesa: %s\n\n", o.CustomerName, o.TableNumber)
		fmt.Fprintf(&b, "ITENS:\n%s\n\n", items)
		fmt.Fprintf(&b, "Total: %s\n\n", money(o.Total))
		b.WriteString("🍢 Pagamento na Mesa\nPor favor, confirme meu pedido!")
		return b.String()
	}

	fmt.Fprintf(&b, "Cliente: %s\nWhatsApp: %s\n\n", o.CustomerName, o.CustomerPhone)
	fmt.Fprintf(&b, "ITENS DO PEDIDO:\n%s\n\n", items)
	b.WriteString("RESUMO:\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money(domain.ItemsSubtotal(o.Items)))
	if o.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "Taxa de Entrega: %s\n", money(o.DeliveryFee))
	}
	if o.Discount.IsPositive() {
		fmt.Fprintf(&b, "Desconto: - %s\n", money(o.Discount))
	}
	fmt.Fprintf(&b, "TOTAL: %s\n\n", money(o.Total))
	fmt.Fprintf(&b, "Endereço: %s\n", o.Address)
	if o.PaymentMethod != "" {
		fmt.Fprintf(&b, "Forma de Pagamento: %s\n", paymentLabel(o.PaymentMethod))
	}
	return strings.TrimRight(b.String(), "\n")
}

func paymentLabel(method string) string {
	switch method {
	case "pix":
		return "Pix"
	case "link":
		return "Cartão (Link)"
	case "delivery_card", "card":
		return "Cartão na entrega"
	case "cash":
		return "Dinheiro"
	}
	return method
}
