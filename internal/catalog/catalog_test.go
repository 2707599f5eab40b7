package catalog

import "testing"

func TestDefaultCategoriesShape(t *testing.T) {
	if len(DefaultCategories) != 10 {
		t.Fatalf("expected 10 default categories, got %d", len(DefaultCategories))
	}
	if DefaultCategories[len(DefaultCategories)-1] != ExtraCategory {
		t.Errorf("last category = %q, want %q", DefaultCategories[len(DefaultCategories)-1], ExtraCategory)
	}

	known := make(map[string]bool, len(DefaultCategories))
	for _, name := range DefaultCategories {
		if known[name] {
			t.Errorf("duplicate category %q", name)
		}
		known[name] = true
	}

	for category := range StarterItems {
		if !known[category] {
			t.Errorf("starter items reference unknown category %q", category)
		}
	}
	if len(StarterItems[ExtraCategory]) != 0 {
		t.Error("the Extra category must start empty")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"Banana", "Hortifruti"},
		{"leite", "Laticínios"},
		{"LEITE CONDENSADO", "Laticínios"},
		{"pão francês", "Padaria"},
		{"arroz integral", "Mercearia"},
		{"peito de frango", "Carnes e Peixes"},
		{"água com gás", "Bebidas"},
		{"sabão em pó", "Limpeza"},
		{"papel higiênico", "Higiene"},
		{"pizza congelada", "Congelados"},
		{"pilhas", ExtraCategory},
		{"", ExtraCategory},
		{"   ", ExtraCategory},
	}
	for _, tt := range tests {
		if got := Categorize(tt.item); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestCategorizeMatchesOnlyDefaultCategories(t *testing.T) {
	known := make(map[string]bool, len(DefaultCategories))
	for _, name := range DefaultCategories {
		known[name] = true
	}
	for keyword, category := range exactMatch {
		if !known[category] {
			t.Errorf("exact match %q points at unknown category %q", keyword, category)
		}
	}
	for _, entry := range substringMatches {
		if !known[entry.category] {
			t.Errorf("substring match %q points at unknown category %q", entry.keyword, entry.category)
		}
	}
}
