package expense

import "github.com/zombor/expense-tracker/internal/extraction"

// CategoryInfo describes a category for display
type CategoryInfo struct {
	ID    extraction.Category `json:"id"`
	Name  string              `json:"name"`
	Icon  string              `json:"icon"`
	Color string              `json:"color"`
}

var catalog = map[extraction.Category]CategoryInfo{
	extraction.CategoryFood:          {Name: "Food & Dining", Icon: "🍔", Color: "#FF6B6B"},
	extraction.CategoryGroceries:     {Name: "Groceries", Icon: "🛒", Color: "#4ECDC4"},
	extraction.CategoryTransport:     {Name: "Transportation", Icon: "🚗", Color: "#45B7D1"},
	extraction.CategoryUtilities:     {Name: "Utilities", Icon: "💡", Color: "#FFA07A"},
	extraction.CategoryEntertainment: {Name: "Entertainment", Icon: "🎬", Color: "#98D8C8"},
	extraction.CategoryHealthcare:    {Name: "Healthcare", Icon: "🏥", Color: "#F7DC6F"},
	extraction.CategoryShopping:      {Name: "Shopping", Icon: "🛍️", Color: "#BB8FCE"},
	extraction.CategoryTravel:        {Name: "Travel", Icon: "✈️", Color: "#85C1E2"},
	extraction.CategoryEducation:     {Name: "Education", Icon: "📚", Color: "#F8B739"},
	extraction.CategoryOther:         {Name: "Other", Icon: "📌", Color: "#95A5A6"},
}

// Categories returns the catalog in display order
func Categories() []CategoryInfo {
	ids := extraction.Categories()
	out := make([]CategoryInfo, 0, len(ids))
	for _, id := range ids {
		info := catalog[id]
		info.ID = id
		out = append(out, info)
	}
	return out
}
