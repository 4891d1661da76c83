package ingest

import (
	"regexp"
	"strings"
)

// DefaultFallback is the label for descriptions no rule matches.
const DefaultFallback = "Miscellaneous"

// CategoryRule maps one category label to the patterns that select it.
type CategoryRule struct {
	Category string
	Patterns []*regexp.Regexp
}

// Rules is an ordered rule table. Order is significant: the first category
// with a matching pattern wins.
type Rules struct {
	Categories []CategoryRule
	Fallback   string
}

// DefaultRules returns the built-in table for Indian retail banking narrations.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			rule("Income", "SALARY", "INTEREST", "CREDIT"),
			rule("Food & Dining", "ZOMATO", "SWIGGY", "RESTAURANT", "DOMINOS"),
			rule("Transport", "OLA", "UBER", "RAPIDO", "METRO", "AUTO"),
			rule("Shopping", "FLIPKART", "AMAZON", "MYNTRA", "AJIO", "SHOPPERS STOP"),
			rule("Entertainment & Subscriptions", "NETFLIX", "AMAZON PRIME", "PRIME VIDEO", "SPOTIFY", "BOOKMYSHOW", "PVR"),
			rule("Bills & Utilities", "BESCOM", "BSNL", "AIRTEL", "VODAFONE", "ELECTRICITY", "JIO", "WATER BILL", "GAS"),
			rule("Groceries", "BLINKIT", "ZEPTO", "BIGBASKET", "GROCERY"),
			rule("Health & Wellness", "APOLLO PHARMACY", "1MG", "PHARMEASY", "CULT.FIT"),
			rule("UPI Transfer", "UPI/"),
			rule("Investments", "ZERODHA", "GROWW", "UPSTOX"),
		},
		Fallback: DefaultFallback,
	}
}

func rule(category string, patterns ...string) CategoryRule {
	r := CategoryRule{Category: category}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(`(?i)`+p))
	}
	return r
}

// Categorizer assigns exactly one category label to a description.
// It is safe for concurrent use.
type Categorizer struct {
	rules    []CategoryRule
	fallback string
}

func NewCategorizer(rules Rules) *Categorizer {
	fallback := rules.Fallback
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultFallback
	}
	return &Categorizer{
		rules:    append([]CategoryRule(nil), rules.Categories...),
		fallback: fallback,
	}
}

// Categorize upper-cases the description and returns the first category in
// table order with a matching pattern, or the fallback label.
func (c *Categorizer) Categorize(description string) string {
	upper := strings.ToUpper(description)
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if p.MatchString(upper) {
				return r.Category
			}
		}
	}
	return c.fallback
}

// Categories lists the configured labels in table order, fallback last.
func (c *Categorizer) Categories() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.Category)
	}
	return append(out, c.fallback)
}
