package domain

// Cart domain errors.
var (
	ErrLineNotFound    = &Error{Code: ENOTFOUND, Message: "Cart line not found"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// SelectedGroup records the chosen labels for one option group.
// Slice order follows the product template so order summaries render
// groups the way the menu lists them.
type SelectedGroup struct {
	Group  string   `json:"group"`
	Labels []string `json:"labels"`
}

// Line is one committed cart entry. Two configurations that differ in
// product, cut, any option selection, or special instructions never share
// a Key and therefore never merge.
type Line struct {
	Key                 string          `json:"key"`
	ProductID           string          `json:"product_id"`
	Name                string          `json:"name"`
	CutWeight           string          `json:"cut_weight,omitempty"`
	Options             []SelectedGroup `json:"options,omitempty"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	UnitPriceCents      int64           `json:"unit_price_cents"`
	Quantity            int             `json:"quantity"`
	ImageURL            string          `json:"image_url,omitempty"`
	Unit                string          `json:"unit,omitempty"`
}

// SubtotalCents returns unit price times quantity.
func (l Line) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}
