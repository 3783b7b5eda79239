package catalog

import "time"

// Kind is the closed category tag for catalog entries. Upstream data
// carries it as a free string; NormalizeKind folds unknown values into
// KindOther.
type Kind string

const (
	KindTamal  Kind = "tamal"
	KindBebida Kind = "bebida"
	KindCombo  Kind = "combo"
	KindOther  Kind = "other"
)

// NormalizeKind maps an inbound kind string onto the closed enumeration.
func NormalizeKind(raw string) Kind {
	switch Kind(raw) {
	case KindTamal, KindBebida, KindCombo:
		return Kind(raw)
	default:
		return KindOther
	}
}

// Product is a catalog entry. Combos share this table and identifier
// space, discriminated by Kind == KindCombo.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Kind          Kind              `json:"kind"`
	Description   string            `json:"description,omitempty"`
	BasePrice     *float64          `json:"base_price"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Available     bool              `json:"available"`
	Customizable  bool              `json:"customizable"`
	HasImage      bool              `json:"has_image"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ComboItem is a quantified weak reference to a product. Name and unit
// price are denormalized snapshots written at combo-save time; they go
// stale when the referenced product later changes, which matches the
// historical behavior and is intentionally not invalidated here.
type ComboItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Combo is a product of KindCombo together with its ordered items.
// Item order is display order only; pricing does not depend on it.
type Combo struct {
	Product
	Items []ComboItem `json:"items"`
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Name         *string
	Description  *string
	BasePrice    *float64
	Attributes   map[string]string
	Available    *bool
	Customizable *bool
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.BasePrice == nil &&
		p.Attributes == nil && p.Available == nil && p.Customizable == nil
}

// Filter narrows List results. Kind is the only server-side filter;
// text search and price caps are a client concern.
type Filter struct {
	Kind Kind
}
