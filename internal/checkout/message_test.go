package checkout_test

import (
	"strings"
	"testing"

	"github.com/jrmart12/nayos/internal/checkout"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare local number", "33025597", "50433025597"},
		{"already prefixed", "50433025597", "50433025597"},
		{"plus prefix", "+50433025597", "50433025597"},
		{"formatted", "(504) 3302-5597", "50433025597"},
		{"too short", "1234", "50499999999"},
		{"empty", "", "50499999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkout.NormalizePhone(tt.in))
		})
	}
}

func TestStripEmoji(t *testing.T) {
	assert.Equal(t, "Alitas ", checkout.StripEmoji("Alitas 🍗🔥"))
	assert.Equal(t, "sin cambios", checkout.StripEmoji("sin cambios"))
	// Accented Spanish text must survive untouched.
	assert.Equal(t, "Teléfono, Dirección, ñ", checkout.StripEmoji("Teléfono, Dirección, ñ"))
}

func TestHandoffURL(t *testing.T) {
	url := checkout.HandoffURL("33025597", "hola mundo")

	assert.True(t, strings.HasPrefix(url, "https://wa.me/50433025597?text="))
	assert.Contains(t, url, "hola%20mundo")
	assert.NotContains(t, url, "+")
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		Customer: domain.Customer{Name: "Ana López", Phone: "98765432"},
		Address:  "Col. El Sauce, casa 12",
		Notes:    "Portón negro",
		Lines: []domain.Line{
			{
				Name:      "Alitas",
				CutWeight: "12 unidades",
				Options: []domain.SelectedGroup{
					{Group: "Salsas", Labels: []string{"BBQ", "Buffalo"}},
				},
				SpecialInstructions: "bien doradas",
				UnitPriceCents:      33000,
				Quantity:            2,
			},
			{
				Name:           "Hamburguesa",
				UnitPriceCents: 18000,
				Quantity:       1,
			},
		},
		DeliveryMethod: domain.DeliveryToAddress,
		SubtotalCents:  84000,
		DeliveryCents:  5000,
		TotalCents:     89000,
		PaymentMethod:  domain.PaymentCash,
		CashChange:     "Sí, de L. 1000",
	}
}

func TestRenderOrderMessage_FieldOrder(t *testing.T) {
	msg := checkout.RenderOrderMessage(sampleOrder())

	wantInOrder := []string{
		"¡Hola! Me gustaría hacer un pedido:",
		"Nombre: Ana López",
		"Teléfono: 98765432",
		"Dirección: Col. El Sauce, casa 12",
		"Instrucciones: Portón negro",
		"• Alitas (12 unidades)",
		"  Salsas: BBQ, Buffalo",
		"  Indicaciones: bien doradas",
		"  Cantidad: 2",
		"  Precio unitario: L. 330.00",
		"  Subtotal: L. 660.00",
		"• Hamburguesa",
		"  Cantidad: 1",
		"*Subtotal: L. 840.00*",
		"*Envío: L. 50.00*",
		"*Total a Pagar: L. 890.00*",
		"Método de Entrega: A Domicilio",
		"*MÉTODO DE PAGO:*",
		"Efectivo",
		"Cambio: Sí, de L. 1000",
	}

	pos := -1
	for _, want := range wantInOrder {
		idx := strings.Index(msg, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", want, msg)
		require.Greater(t, idx, pos, "%q out of order", want)
		pos = idx
	}
}

func TestRenderOrderMessage_Pickup(t *testing.T) {
	order := sampleOrder()
	order.DeliveryMethod = domain.DeliveryPickup
	order.Address = ""
	order.DeliveryCents = 0

	msg := checkout.RenderOrderMessage(order)
	assert.Contains(t, msg, "Método de Entrega: Pickup (Recoger en restaurante)")
	assert.NotContains(t, msg, "Dirección:")
}

func TestRenderOrderMessage_Transfer(t *testing.T) {
	order := sampleOrder()
	order.PaymentMethod = domain.PaymentTransfer
	order.CashChange = ""
	order.Bank = &domain.BankAccount{
		Bank:          "BAC",
		AccountNumber: "727269691",
		Holder:        "JHOEL JONES VELASQUEZ",
		HolderID:      "0101199500756",
	}
	order.ReceiptURL = "https://cdn.example.com/receipts/abc.jpg"

	msg := checkout.RenderOrderMessage(order)
	assert.Contains(t, msg, "Transferencia Bancaria")
	assert.Contains(t, msg, "Banco: BAC")
	assert.Contains(t, msg, "*Cuenta BAC:* 727269691")
	assert.Contains(t, msg, "Titular: JHOEL JONES VELASQUEZ")
	assert.Contains(t, msg, "ID: 0101199500756")
	assert.Contains(t, msg, "*Comprobante de Transferencia:*\nhttps://cdn.example.com/receipts/abc.jpg")
}

func TestRenderOrderMessage_CardLink(t *testing.T) {
	order := sampleOrder()
	order.PaymentMethod = domain.PaymentCardLink
	order.CashChange = ""

	msg := checkout.RenderOrderMessage(order)
	assert.Contains(t, msg, "Pago con Tarjeta")
	assert.Contains(t, msg, "(Por favor generar link de pago)")
}

func TestRenderOrderMessage_StripsEmojiFromCustomerText(t *testing.T) {
	order := sampleOrder()
	order.Notes = "Con picante 🔥 por favor"
	order.Lines[0].SpecialInstructions = "extra crujiente 🍗"

	msg := checkout.RenderOrderMessage(order)
	assert.NotContains(t, msg, "🔥")
	assert.NotContains(t, msg, "🍗")
	assert.Contains(t, msg, "Con picante")
}
