package catalog

import (
	"sort"
	"strings"

	"github.com/cazuela-chapina/cazuela/internal/pricing"
)

// nameKeys, kindKeys etc. mirror the field spellings the legacy clients
// used. The adapter below is the only place the variants are known;
// everything past it works with the canonical Product.
var (
	nameKeys         = []string{"Nombre_producto", "NOMBRE_PRODUCTO", "nombre", "name"}
	kindKeys         = []string{"Tipo_producto", "TIPO_PRODUCTO", "tipo", "kind", "type"}
	descriptionKeys  = []string{"Descripcion", "DESCRIPCION", "descripcion", "description"}
	availableKeys    = []string{"Disponible", "DISPONIBLE", "disponible", "available"}
	customizableKeys = []string{"Personalizable", "PERSONALIZABLE", "personalizable", "customizable"}
	attributeKeys    = []string{"Atributos", "ATRIBUTOS", "atributos", "attributes"}
)

// FromRecord adapts an external heterogeneous record into a canonical
// Product. Price resolution follows the pricing package's fixed
// precedence; a record with no price information yields a nil BasePrice.
func FromRecord(record map[string]any) Product {
	p := Product{
		Name: firstString(record, nameKeys),
		Kind: NormalizeKind(strings.ToLower(firstString(record, kindKeys))),
	}
	p.Description = firstString(record, descriptionKeys)

	if hasPriceField(record) {
		price := pricing.Resolve(record)
		p.BasePrice = &price
	}

	p.Available = parseFlag(firstString(record, availableKeys), true)
	p.Customizable = parseFlag(firstString(record, customizableKeys), false)

	if attrs := firstString(record, attributeKeys); attrs != "" {
		p.Attributes = parseAttributes(attrs)
	}
	return p
}

func hasPriceField(record map[string]any) bool {
	for _, key := range []string{"PRECIO", "PRECIO_BASE", "Precio_base", "Precio", "precio", "price"} {
		if v, ok := record[key]; ok && v != nil {
			return true
		}
	}
	return false
}

func firstString(record map[string]any, keys []string) string {
	for _, key := range keys {
		if raw, ok := record[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// parseFlag interprets the legacy textual booleans ("S"/"N", "si"/"no",
// "true"/"false", "1"/"0").
func parseFlag(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s", "si", "sí", "true", "1", "yes", "y":
		return true
	case "n", "no", "false", "0":
		return false
	default:
		return fallback
	}
}

// parseAttributes splits the legacy "key:value,key:value" attribute
// string into a map. Entries without a colon keep the raw token as the
// key with an empty value, so substring matches (picante) still work.
func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, found := strings.Cut(part, ":"); found {
			attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else {
			attrs[part] = ""
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// AttributeString renders attributes back into the legacy comma/colon
// format used by the analytics substring match. Keys are sorted so the
// stored column is stable across writes of the same attribute set.
func AttributeString(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			parts = append(parts, k+":"+v)
		} else {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, ",")
}
