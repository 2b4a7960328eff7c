package models

// Category is a fixed classification attached to items at enrichment time.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Categories is the static category registry. The first entry is the
// fallback for unknown ids.
var Categories = []Category{
	{ID: "electronics", Name: "Electronics", Icon: "📱"},
	{ID: "documents", Name: "Documents", Icon: "📄"},
	{ID: "jewelry", Name: "Jewelry", Icon: "💍"},
	{ID: "tools", Name: "Tools", Icon: "🔧"},
	{ID: "clothing", Name: "Clothing", Icon: "👕"},
	{ID: "other", Name: "Other", Icon: "📦"},
}

// ResolveCategory looks up id in the registry, defaulting to the first entry.
func ResolveCategory(id string) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Categories[0]
}

// IsValidCategory checks if id names a registry entry
func IsValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
