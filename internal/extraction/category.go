package extraction

import "strings"

// scanScope says where a rule's keywords are searched
type scanScope int

const (
	scopeMerchant scanScope = iota
	scopeMerchantOrText
)

type categoryRule struct {
	category Category
	keywords []string
	scope    scanScope
}

// categoryRules are tested in order; the first match wins.
// Some rules only look at the merchant name and others also search the
// whole receipt text. That asymmetry is intentional, see DESIGN.md.
var categoryRules = []categoryRule{
	{
		category: CategoryFood,
		keywords: []string{"restaurant", "cafe", "coffee", "pizza", "burger", "food", "dine"},
		scope:    scopeMerchantOrText,
	},
	{
		category: CategoryGroceries,
		keywords: []string{"market", "grocery", "supermarket", "whole foods", "trader"},
		scope:    scopeMerchant,
	},
	{
		category: CategoryTransport,
		keywords: []string{"gas", "fuel", "uber", "lyft", "taxi", "parking"},
		scope:    scopeMerchant,
	},
	{
		category: CategoryEntertainment,
		keywords: []string{"cinema", "theater", "movie", "game", "spotify", "netflix"},
		scope:    scopeMerchantOrText,
	},
	{
		category: CategoryShopping,
		keywords: []string{"amazon", "store", "shop", "mart", "target", "walmart"},
		scope:    scopeMerchant,
	},
}

// Classifier guesses an expense category from keywords
type Classifier struct{}

// Classify returns the category of the first matching rule, or CategoryOther
func (Classifier) Classify(merchant, text string) Category {
	merchant = strings.ToLower(merchant)
	text = strings.ToLower(text)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(merchant, kw) {
				return rule.category
			}
			if rule.scope == scopeMerchantOrText && strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
