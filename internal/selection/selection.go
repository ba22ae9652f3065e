// Package selection tracks an in-progress product configuration: the chosen
// cut, option-group selections and special instructions, plus the step-by-step
// disclosure cursor the configurator UI drives.
package selection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/pricing"
)

// Selection domain errors.
var (
	ErrCutRequired     = &domain.Error{Code: domain.EINVALID, Message: "Por favor selecciona una porción"}
	ErrOptionsRequired = &domain.Error{Code: domain.EINVALID, Message: "Por favor completa todas las opciones requeridas"}
)

// SauceLimitError rejects adding a sauce beyond the quantity-derived cap.
// The selection is left unchanged; the message is surfaced to the shopper.
type SauceLimitError struct {
	CutWeight string
	Max       int
}

func (e *SauceLimitError) Error() string {
	plural := ""
	if e.Max > 1 {
		plural = "s"
	}
	return fmt.Sprintf("Para %s, solo puedes elegir hasta %d salsa%s.", e.CutWeight, e.Max, plural)
}

var firstInt = regexp.MustCompile(`\d+`)

// State is the ephemeral configuration for one product. It is not safe for
// concurrent use; each configuration session owns its own State.
type State struct {
	product      *domain.Product
	cut          *domain.Cut
	selected     map[string][]string
	instructions string
	expanded     int
}

// New creates a fresh State for a product. The first incomplete required
// group starts expanded so the configurator opens on the next decision.
func New(product *domain.Product) *State {
	s := &State{
		product:  product,
		selected: make(map[string][]string),
		expanded: -1,
	}
	s.expanded = s.FirstIncompleteRequired()
	return s
}

// Product returns the template this state configures.
func (s *State) Product() *domain.Product {
	return s.product
}

// SelectedCut returns the chosen cut, or nil.
func (s *State) SelectedCut() *domain.Cut {
	return s.cut
}

// Selected returns the chosen labels for a group in selection order.
func (s *State) Selected(group string) []string {
	return s.selected[group]
}

// SpecialInstructions returns the free-text instructions.
func (s *State) SpecialInstructions() string {
	return s.instructions
}

// SelectCut replaces the chosen cut. Cuts are single-select; there is no
// accumulation. Out-of-stock cuts are not selectable.
func (s *State) SelectCut(weight string) error {
	cut, ok := s.product.FindCut(weight)
	if !ok {
		return domain.NotFound("selection.cut", "cut", weight)
	}
	if !cut.InStock {
		return domain.Errorf(domain.EINVALID, "selection.cut", "cut %q is out of stock", weight)
	}

	s.cut = &cut
	return nil
}

// Select applies a choice to an option group. Single-select groups replace
// their selection; multi-select groups toggle membership. Adding to a capped
// sauce group beyond the cut-derived limit returns a SauceLimitError and
// leaves the selection unchanged.
func (s *State) Select(groupName, label string) error {
	group, ok := s.product.FindGroup(groupName)
	if !ok {
		return domain.NotFound("selection.option", "option group", groupName)
	}
	if _, ok := group.FindChoice(label); !ok {
		return domain.NotFound("selection.option", "choice", label)
	}

	if !group.Multiple {
		s.selected[groupName] = []string{label}
		return nil
	}

	current := s.selected[groupName]
	for i, l := range current {
		if l == label {
			// Removal is always allowed, cap or no cap.
			s.selected[groupName] = append(current[:i:i], current[i+1:]...)
			return nil
		}
	}

	if max, capped := s.sauceCap(group); capped && len(current) >= max {
		return &SauceLimitError{CutWeight: s.cut.Weight, Max: max}
	}

	s.selected[groupName] = append(current, label)
	return nil
}

// SetSpecialInstructions stores the shopper's free-text note.
func (s *State) SetSpecialInstructions(text string) {
	s.instructions = text
}

// SauceCap returns the active sauce limit and whether the rule applies to
// the named group right now. The rule needs a wings/boneless product, a
// sauce-flavored group name and a selected cut to derive the quantity from.
func (s *State) SauceCap(groupName string) (int, bool) {
	group, ok := s.product.FindGroup(groupName)
	if !ok {
		return 0, false
	}
	return s.sauceCap(group)
}

func (s *State) sauceCap(group domain.OptionGroup) (int, bool) {
	if !group.Multiple || s.cut == nil {
		return 0, false
	}

	name := strings.ToLower(s.product.Name)
	if !strings.Contains(name, "alitas") && !strings.Contains(name, "boneless") {
		return 0, false
	}

	gname := strings.ToLower(group.Name)
	if !strings.Contains(gname, "salsa") && !strings.Contains(gname, "sabor") {
		return 0, false
	}

	match := firstInt.FindString(s.cut.Weight)
	if match == "" {
		return 0, false
	}
	qty, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}

	max := qty / 6
	if max < 1 {
		max = 1
	}
	return max, true
}

// Complete reports whether the configuration can be added to the cart:
// a cut chosen when the product has cuts, and at least one selection in
// every required group.
func (s *State) Complete() bool {
	if s.product.HasCuts() && s.cut == nil {
		return false
	}
	for _, group := range s.product.Options {
		if group.Required && len(s.selected[group.Name]) == 0 {
			return false
		}
	}
	return true
}

// Validate returns the blocking error for an incomplete configuration.
func (s *State) Validate() error {
	if s.product.HasCuts() && s.cut == nil {
		return ErrCutRequired
	}
	for _, group := range s.product.Options {
		if group.Required && len(s.selected[group.Name]) == 0 {
			return ErrOptionsRequired
		}
	}
	return nil
}

// UnitPriceCents prices the current configuration: cut price (or base price)
// plus selected surcharges.
func (s *State) UnitPriceCents() int64 {
	base := s.product.PriceCents
	if s.product.HasCuts() && s.cut != nil {
		base = s.cut.PriceCents
	}
	return pricing.LinePrice(base, s.product.Options, s.selectedGroups())
}

// Line materializes the configuration as a cart line. Returns a validation
// error while the configuration is incomplete. The line's identity key is
// assigned by the cart on add.
func (s *State) Line() (domain.Line, error) {
	if err := s.Validate(); err != nil {
		return domain.Line{}, err
	}

	line := domain.Line{
		ProductID:           s.product.ID,
		Name:                s.product.Name,
		Options:             s.selectedGroups(),
		SpecialInstructions: s.instructions,
		UnitPriceCents:      s.UnitPriceCents(),
		Quantity:            1,
		ImageURL:            s.product.ImageURL,
		Unit:                s.product.Unit,
	}
	if s.cut != nil {
		line.CutWeight = s.cut.Weight
	}
	if line.Unit == "" {
		line.Unit = "porción"
	}
	return line, nil
}

// selectedGroups flattens the selection map into template order so order
// summaries list groups the way the menu does.
func (s *State) selectedGroups() []domain.SelectedGroup {
	var groups []domain.SelectedGroup
	for _, g := range s.product.Options {
		labels := s.selected[g.Name]
		if len(labels) == 0 {
			continue
		}
		groups = append(groups, domain.SelectedGroup{
			Group:  g.Name,
			Labels: append([]string(nil), labels...),
		})
	}
	return groups
}

// Reset clears the state after a successful add-to-cart.
func (s *State) Reset() {
	s.cut = nil
	s.selected = make(map[string][]string)
	s.instructions = ""
	s.expanded = s.FirstIncompleteRequired()
}

// =============================================================================
// Step-by-step disclosure (UI affordance, not a pricing concern)
// =============================================================================

// Expanded returns the index of the currently visible option group, or -1.
func (s *State) Expanded() int {
	return s.expanded
}

// Expand makes one group's choices visible; Collapse hides all.
func (s *State) Expand(idx int) {
	if idx >= 0 && idx < len(s.product.Options) {
		s.expanded = idx
	}
}

// Collapse hides all group choices.
func (s *State) Collapse() {
	s.expanded = -1
}

// FirstIncompleteRequired returns the index of the first required group with
// no selection, or -1 when every required group is satisfied.
func (s *State) FirstIncompleteRequired() int {
	return s.NextIncompleteRequired(-1)
}

// NextIncompleteRequired returns the index of the next required group after
// the given index with no selection, or -1.
func (s *State) NextIncompleteRequired(after int) int {
	for i, group := range s.product.Options {
		if i <= after {
			continue
		}
		if group.Required && len(s.selected[group.Name]) == 0 {
			return i
		}
	}
	return -1
}

// AdvanceDisclosure collapses the current group and expands the next
// incomplete required one, mirroring the configurator's auto-step behavior
// after a required single-select choice.
func (s *State) AdvanceDisclosure() {
	s.expanded = s.NextIncompleteRequired(s.expanded)
}
