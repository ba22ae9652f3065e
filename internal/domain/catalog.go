package domain

import "context"

// Catalog domain errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
)

// CatalogProvider returns product configuration templates.
// The catalog is read-only from the core's perspective; content is authored
// in the CMS and served by whichever implementation is wired in.
type CatalogProvider interface {
	// GetProduct retrieves a single product template by slug.
	GetProduct(ctx context.Context, slug string) (*Product, error)

	// ListProducts retrieves all product templates in menu order.
	ListProducts(ctx context.Context) ([]Product, error)
}

// Product is a read-only configuration template for one menu item.
// A product either carries a base price, or a set of mutually exclusive
// Cuts whose price replaces the base price entirely.
type Product struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents,omitempty"`
	Unit       string `json:"unit,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	BestSeller bool   `json:"best_seller,omitempty"`

	Cuts    []Cut         `json:"cuts,omitempty"`
	Options []OptionGroup `json:"options,omitempty"`

	AllowSpecialInstructions bool `json:"allow_special_instructions,omitempty"`
}

// Cut is a mutually exclusive portion choice (e.g., "12 unidades", "1 lb").
// Its price replaces the product base price rather than adding to it.
type Cut struct {
	Weight     string `json:"weight"`
	PriceCents int64  `json:"price_cents"`
	InStock    bool   `json:"in_stock"`
}

// OptionGroup is a named set of choices attached to a product.
// Required groups must have at least one selection before add-to-cart.
type OptionGroup struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Multiple bool     `json:"multiple"`
	Choices  []Choice `json:"choices"`
}

// Choice is one selectable entry in an option group.
type Choice struct {
	Label           string `json:"label"`
	ExtraPriceCents int64  `json:"extra_price_cents"`
}

// HasCuts reports whether the product requires a portion choice.
func (p *Product) HasCuts() bool {
	return len(p.Cuts) > 0
}

// HasOptions reports whether the product carries option groups.
func (p *Product) HasOptions() bool {
	return len(p.Options) > 0
}

// AvailableCuts returns only in-stock cuts, preserving template order.
func (p *Product) AvailableCuts() []Cut {
	cuts := make([]Cut, 0, len(p.Cuts))
	for _, c := range p.Cuts {
		if c.InStock {
			cuts = append(cuts, c)
		}
	}
	return cuts
}

// FindCut looks up a cut by its weight label.
func (p *Product) FindCut(weight string) (Cut, bool) {
	for _, c := range p.Cuts {
		if c.Weight == weight {
			return c, true
		}
	}
	return Cut{}, false
}

// FindGroup looks up an option group by name.
func (p *Product) FindGroup(name string) (OptionGroup, bool) {
	for _, g := range p.Options {
		if g.Name == name {
			return g, true
		}
	}
	return OptionGroup{}, false
}

// FindChoice looks up a choice by label.
func (g OptionGroup) FindChoice(label string) (Choice, bool) {
	for _, c := range g.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return Choice{}, false
}
