package checkout

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/pricing"
)

// emojiRanges covers the symbol blocks the messaging channel mis-renders.
var emojiRanges = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]|[\x{FE00}-\x{FE0F}]|[\x{1F000}-\x{1F02F}]|[\x{1F0A0}-\x{1F0FF}]|[\x{1F100}-\x{1F64F}]|[\x{1F680}-\x{1F6FF}]|[\x{1F910}-\x{1F96B}]|[\x{1F980}-\x{1F9E0}]`)

// StripEmoji removes emoji and related symbol characters from text.
func StripEmoji(text string) string {
	return emojiRanges.ReplaceAllString(text, "")
}

var nonDigits = regexp.MustCompile(`\D`)

// fallbackPhone is used when the configured merchant number is unusable.
const fallbackPhone = "50499999999"

// NormalizePhone converts a merchant phone number to wa.me digit form.
// Bare 8-digit local numbers get the Honduras country code prefixed; numbers
// already carrying 504 (with or without a leading +) pass through. Anything
// shorter than a local number falls back to the default merchant line.
func NormalizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 8:
		return "504" + digits
	case len(digits) < 8:
		return fallbackPhone
	default:
		return digits
	}
}

// HandoffURL builds the wa.me deep link carrying the rendered order message.
// Spaces are encoded as %20; the channel does not accept '+' encoding.
func HandoffURL(merchantPhone, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(merchantPhone), encoded)
}

// RenderOrderMessage serializes an order into the plain-text block sent over
// the messaging channel. Field order is stable; recipients read these by eye
// and the kitchen relies on the layout. Emoji are stripped last so customer
// supplied text cannot reintroduce them.
func RenderOrderMessage(order *domain.Order) string {
	var b strings.Builder

	b.WriteString("¡Hola! Me gustaría hacer un pedido:\n\n")

	if order.Customer.Name != "" {
		fmt.Fprintf(&b, "Nombre: %s\n", order.Customer.Name)
	}
	if order.Customer.Phone != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", order.Customer.Phone)
	}
	if order.Address != "" {
		fmt.Fprintf(&b, "Dirección: %s\n", order.Address)
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "Instrucciones: %s\n", order.Notes)
	}
	b.WriteString("\n")

	for _, line := range order.Lines {
		name := line.Name
		if line.CutWeight != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, line.CutWeight)
		}
		fmt.Fprintf(&b, "• %s\n", name)
		for _, g := range line.Options {
			fmt.Fprintf(&b, "  %s: %s\n", g.Group, strings.Join(g.Labels, ", "))
		}
		if line.SpecialInstructions != "" {
			fmt.Fprintf(&b, "  Indicaciones: %s\n", line.SpecialInstructions)
		}
		fmt.Fprintf(&b, "  Cantidad: %d\n", line.Quantity)
		fmt.Fprintf(&b, "  Precio unitario: %s\n", pricing.Lempira(line.UnitPriceCents))
		fmt.Fprintf(&b, "  Subtotal: %s\n\n", pricing.Lempira(line.SubtotalCents()))
	}

	fmt.Fprintf(&b, "*Subtotal: %s*\n", pricing.Lempira(order.SubtotalCents))
	fmt.Fprintf(&b, "*Envío: %s*\n", pricing.Lempira(order.DeliveryCents))
	fmt.Fprintf(&b, "*Total a Pagar: %s*\n\n", pricing.Lempira(order.TotalCents))

	method := "Pickup (Recoger en restaurante)"
	if order.DeliveryMethod == domain.DeliveryToAddress {
		method = "A Domicilio"
	}
	fmt.Fprintf(&b, "Método de Entrega: %s\n\n", method)

	if order.PaymentMethod != "" {
		b.WriteString("*MÉTODO DE PAGO:*\n")
		switch order.PaymentMethod {
		case domain.PaymentCash:
			b.WriteString("Efectivo\n")
			if order.CashChange != "" {
				fmt.Fprintf(&b, "Cambio: %s\n", order.CashChange)
			}
		case domain.PaymentTransfer:
			b.WriteString("Transferencia Bancaria\n")
			if order.Bank != nil {
				fmt.Fprintf(&b, "Banco: %s\n\n", order.Bank.Bank)
				fmt.Fprintf(&b, "*Cuenta %s:* %s\n", order.Bank.Bank, order.Bank.AccountNumber)
				fmt.Fprintf(&b, "Titular: %s\n", order.Bank.Holder)
				fmt.Fprintf(&b, "ID: %s\n", order.Bank.HolderID)
			}
		case domain.PaymentCardLink:
			b.WriteString("Pago con Tarjeta\n")
			b.WriteString("(Por favor generar link de pago)\n")
		}
		b.WriteString("\n")
	}

	if order.ReceiptURL != "" {
		fmt.Fprintf(&b, "*Comprobante de Transferencia:*\n%s\n\n", order.ReceiptURL)
	}

	return StripEmoji(b.String())
}
