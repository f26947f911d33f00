package catalog

import "strings"

// Category groups products that share wastage, seasonality and regulatory rules.
type Category string

const (
	Seeds      Category = "seeds"
	Fertilizer Category = "fertilizer"
	Pesticides Category = "pesticides"
	Equipment  Category = "equipment"
	Fuel       Category = "fuel"
	Other      Category = "other"
)

// Categorizer maps a product name to a Category.
type Categorizer interface {
	Categorize(productName string) Category
}

// Func adapts a plain function to a Categorizer.
type Func func(productName string) Category

func (f Func) Categorize(productName string) Category {
	return f(productName)
}

// Rule assigns Category to any name containing one of Keywords.
type Rule struct {
	Category Category
	Keywords []string
}

// Keywords categorizes by case-insensitive substring match. Rules are checked
// in order and the first match wins; unmatched names are Other.
type Keywords struct {
	rules []Rule
}

// NewKeywords builds a Keywords categorizer from rules.
func NewKeywords(rules ...Rule) *Keywords {
	normalized := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		words := make([]string, 0, len(rule.Keywords))
		for _, w := range rule.Keywords {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				words = append(words, w)
			}
		}
		normalized = append(normalized, Rule{Category: rule.Category, Keywords: words})
	}
	return &Keywords{rules: normalized}
}

// DefaultRules is the built-in agricultural input keyword table.
func DefaultRules() []Rule {
	return []Rule{
		{Category: Seeds, Keywords: []string{"seed", "corn", "soybean", "wheat", "barley"}},
		{Category: Fertilizer, Keywords: []string{"fertilizer", "nitrogen", "phosphorus", "potash", "urea"}},
		{Category: Pesticides, Keywords: []string{"pesticide", "herbicide", "insecticide", "fungicide"}},
		{Category: Equipment, Keywords: []string{"tractor", "plow", "harvester", "equipment"}},
		{Category: Fuel, Keywords: []string{"fuel", "diesel", "gasoline", "propane"}},
	}
}

// Default returns a Keywords categorizer over DefaultRules.
func Default() *Keywords {
	return NewKeywords(DefaultRules()...)
}

// With returns a copy of k with extra rules checked before the existing ones.
func (k *Keywords) With(rules ...Rule) *Keywords {
	extended := NewKeywords(rules...)
	extended.rules = append(extended.rules, k.rules...)
	return extended
}

func (k *Keywords) Categorize(productName string) Category {
	name := strings.ToLower(productName)
	for _, rule := range k.rules {
		for _, w := range rule.Keywords {
			if strings.Contains(name, w) {
				return rule.Category
			}
		}
	}
	return Other
}
