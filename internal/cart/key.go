package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"

	"github.com/jrmart12/nayos/internal/domain"
)

// LineKey derives the canonical identity of a cart line from everything that
// distinguishes one configuration from another: product, cut, option
// selections and special instructions. Quantity and prices are excluded so
// re-adding the same configuration merges instead of duplicating.
//
// Option groups and their labels are sorted before hashing, so two shoppers
// picking the same sauces in a different order produce the same key.
func LineKey(line domain.Line) string {
	h := sha256.New()

	writeField(h, line.ProductID)
	cut := line.CutWeight
	if cut == "" {
		cut = "default"
	}
	writeField(h, cut)

	groups := make([]domain.SelectedGroup, len(line.Options))
	copy(groups, line.Options)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	for _, g := range groups {
		writeField(h, g.Group)
		labels := append([]string(nil), g.Labels...)
		sort.Strings(labels)
		for _, l := range labels {
			writeField(h, l)
		}
	}

	writeField(h, line.SpecialInstructions)

	return hex.EncodeToString(h.Sum(nil))
}

// writeField terminates each field with NUL so adjacent fields never glue
// together ("ab"+"c" vs "a"+"bc").
func writeField(w io.Writer, s string) {
	io.WriteString(w, s)
	w.Write([]byte{0})
}
