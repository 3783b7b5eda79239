package catalog

import "github.com/cazuela-chapina/cazuela/internal/pricing"

// comboForm is the JSON body for combo creation. Unlike product
// creation, combos come from the admin panel only, so the shape is
// fixed and validated with struct tags.
type comboForm struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	BasePrice   *float64        `json:"base_price"`
	Available   *bool           `json:"available"`
	Items       []comboItemForm `json:"items" validate:"dive"`
}

type comboItemForm struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price"`
}

func (f comboForm) toCombo() Combo {
	combo := Combo{
		Product: Product{
			Name:        f.Name,
			Kind:        KindCombo,
			Description: f.Description,
			BasePrice:   f.BasePrice,
			Available:   true,
		},
	}
	if f.Available != nil {
		combo.Available = *f.Available
	}
	for _, item := range f.Items {
		combo.Items = append(combo.Items, ComboItem(item))
	}
	return combo
}

// PatchFromRecord builds a partial update from an external record,
// tolerating the same historical field spellings as FromRecord. Absent
// keys stay nil so the repository leaves those columns untouched.
func PatchFromRecord(record map[string]any) Patch {
	var patch Patch
	if name := firstString(record, nameKeys); name != "" {
		patch.Name = &name
	}
	if desc := firstString(record, descriptionKeys); desc != "" {
		patch.Description = &desc
	}
	if hasPriceField(record) {
		price := pricing.Resolve(record)
		patch.BasePrice = &price
	}
	if attrs := firstString(record, attributeKeys); attrs != "" {
		patch.Attributes = parseAttributes(attrs)
	}
	if raw := firstString(record, availableKeys); raw != "" {
		v := parseFlag(raw, true)
		patch.Available = &v
	}
	if raw := firstString(record, customizableKeys); raw != "" {
		v := parseFlag(raw, false)
		patch.Customizable = &v
	}
	return patch
}
