// Package pricing computes line-item prices and formats Lempira amounts.
// All money is handled as int64 centavos; formatting happens only at the
// display/message boundary.
package pricing

import (
	"fmt"

	"github.com/jrmart12/nayos/internal/domain"
)

// LinePrice computes the unit price of a configured item: the chosen base or
// cut price plus the surcharge of every selected choice. A selected label with
// no matching template choice prices as zero; a drifted catalog should never
// block an order.
func LinePrice(baseCents int64, groups []domain.OptionGroup, selected []domain.SelectedGroup) int64 {
	total := baseCents

	for _, sel := range selected {
		group := findGroup(groups, sel.Group)
		for _, label := range sel.Labels {
			if choice, ok := group.FindChoice(label); ok {
				total += choice.ExtraPriceCents
			}
		}
	}

	return total
}

func findGroup(groups []domain.OptionGroup, name string) domain.OptionGroup {
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	return domain.OptionGroup{}
}

// Lempira formats centavos as a Lempira amount with two decimals, e.g.
// "L. 330.00". Negative amounts keep the sign ahead of the figure.
func Lempira(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sL. %d.%02d", sign, cents/100, cents%100)
}
