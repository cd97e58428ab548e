package order

import (
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
)

// ComposeMessage renders the plain-text order sent to the shop.
func ComposeMessage(shop string, lines []cart.Line, d Draft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Olá %s! Gostaria de fazer um pedido:\n\n", shop)
	b.WriteString("*Itens do Pedido:*\n")
	for _, l := range lines {
		fmt.Fprintf(&b, " - %s%s %s (R$ %.2f)\n", cart.FormatQuantity(l.Quantity), l.Unit.Suffix(), l.Name, l.Total())
		if l.Notes != "" {
			fmt.Fprintf(&b, "   _Obs: %s_\n", l.Notes)
		}
	}
	fmt.Fprintf(&b, "\n*Total: R$ %.2f*\n\n", cart.Total(lines))
	b.WriteString("*Dados para Entrega:*\n")
	fmt.Fprintf(&b, "Nome: %s\n", d.Name)
	fmt.Fprintf(&b, "Endereço: %s\n", d.Address)
	if d.Phone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", d.Phone)
	}
	fmt.Fprintf(&b, "Pagamento: %s\n\n", d.PaymentMethod.Label())
	b.WriteString("Aguardando confirmação. Obrigado!")

	return b.String()
}
