package catalog

// Catalog is the set of options loaded once per session. It is treated as
// immutable after construction.
type Catalog struct {
	Flavors  []Option
	Toppings []Option
	Sauces   []Option
	Sizes    []Option
}

func (c Catalog) Section(kind Kind) []Option {
	switch kind {
	case KindFlavor:
		return c.Flavors
	case KindTopping:
		return c.Toppings
	case KindSauce:
		return c.Sauces
	case KindSize:
		return c.Sizes
	default:
		return nil
	}
}

// Find looks up an option by id within one section. Flavor ids and
// customization option ids come from different tables, so lookups are always
// scoped by kind.
func (c Catalog) Find(kind Kind, id int) (Option, bool) {
	for _, o := range c.Section(kind) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Customization looks up a quantity-based option (topping or sauce).
func (c Catalog) Customization(id int) (Option, bool) {
	if o, ok := c.Find(KindTopping, id); ok {
		return o, true
	}
	return c.Find(KindSauce, id)
}

// WithFlavors returns a copy whose flavor section is replaced by the given
// product-specific flavors. An empty list keeps the generic flavors.
func (c Catalog) WithFlavors(flavors []Option) Catalog {
	if len(flavors) == 0 {
		return c
	}
	out := c
	out.Flavors = make([]Option, len(flavors))
	for i, f := range flavors {
		f.Kind = KindFlavor
		out.Flavors[i] = f
	}
	return out
}

func (c Catalog) Len() int {
	return len(c.Flavors) + len(c.Toppings) + len(c.Sauces) + len(c.Sizes)
}
