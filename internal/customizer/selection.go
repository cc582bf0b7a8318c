package customizer

import (
	"maps"
	"slices"
)

// Selection is the user's uncommitted choice for one product. Quantities never
// holds a zero or negative value: an option dropping to zero is deleted.
type Selection struct {
	FlavorID   *int        `json:"flavor_id,omitempty"`
	SizeID     *int        `json:"size_id,omitempty"`
	Quantities map[int]int `json:"quantities,omitempty"`
}

func NewSelection() Selection {
	return Selection{Quantities: map[int]int{}}
}

func (s Selection) Clone() Selection {
	out := Selection{Quantities: make(map[int]int, len(s.Quantities))}
	if s.FlavorID != nil {
		id := *s.FlavorID
		out.FlavorID = &id
	}
	if s.SizeID != nil {
		id := *s.SizeID
		out.SizeID = &id
	}
	maps.Copy(out.Quantities, s.Quantities)
	return out
}

func (s Selection) IsEmpty() bool {
	return s.FlavorID == nil && s.SizeID == nil && len(s.Quantities) == 0
}

// Quantity returns the stored quantity for an option; absent means zero.
func (s Selection) Quantity(optionID int) int {
	return s.Quantities[optionID]
}

// OptionIDs returns the ids with a positive quantity in ascending order.
func (s Selection) OptionIDs() []int {
	return slices.Sorted(maps.Keys(s.Quantities))
}

func (s Selection) FlavorSelected(id int) bool {
	return s.FlavorID != nil && *s.FlavorID == id
}

func (s Selection) SizeSelected(id int) bool {
	return s.SizeID != nil && *s.SizeID == id
}

// adjust applies delta to the quantity of optionID, clamped to [0, limit]
// (limit <= 0 means unbounded), and returns the resulting quantity.
func (s *Selection) adjust(optionID, delta, limit int) int {
	if s.Quantities == nil {
		s.Quantities = map[int]int{}
	}
	q := s.Quantities[optionID] + delta
	if q < 0 {
		q = 0
	}
	if limit > 0 && q > limit {
		q = limit
	}
	if q == 0 {
		delete(s.Quantities, optionID)
	} else {
		s.Quantities[optionID] = q
	}
	return q
}

func intPtr(v int) *int { return &v }
