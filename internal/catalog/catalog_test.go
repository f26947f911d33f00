package catalog

import "testing"

func TestDefaultCategorize(t *testing.T) {
	c := Default()

	cases := map[string]Category{
		"Hybrid Corn Seed":     Seeds,
		"Nitrogen blend":       Fertilizer,
		"Glyphosate Herbicide": Pesticides,
		"Compact Tractor":      Equipment,
		"Off-road Diesel":      Fuel,
		"Baling twine":         Other,
	}
	for name, want := range cases {
		if got := c.Categorize(name); got != want {
			t.Fatalf("Categorize(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFirstRuleWins(t *testing.T) {
	// "seed" is checked before "fertilizer".
	if got := Default().Categorize("seed starter fertilizer"); got != Seeds {
		t.Fatalf("expected seeds, got %q", got)
	}
}

func TestWithPrependsRules(t *testing.T) {
	c := Default().With(Rule{Category: Fertilizer, Keywords: []string{"Manure"}})

	if got := c.Categorize("composted manure"); got != Fertilizer {
		t.Fatalf("expected extended rule to match, got %q", got)
	}
	if got := c.Categorize("corn seed"); got != Seeds {
		t.Fatalf("expected default rules to still apply, got %q", got)
	}
}

func TestFuncCategorizer(t *testing.T) {
	var c Categorizer = Func(func(string) Category { return Equipment })
	if got := c.Categorize("anything"); got != Equipment {
		t.Fatalf("expected equipment, got %q", got)
	}
}
