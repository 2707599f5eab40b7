package catalog

import "strings"

// ExtraCategory is the free-form bucket every new list gets. It is the only
// seeded category flagged as custom.
const ExtraCategory = "Extra"

// DefaultCategories is the category set seeded into every new list, in
// display order.
var DefaultCategories = []string{
	"Hortifruti",
	"Carnes e Peixes",
	"Laticínios",
	"Padaria",
	"Mercearia",
	"Congelados",
	"Bebidas",
	"Limpeza",
	"Higiene",
	ExtraCategory,
}

// StarterItem is a name/quantity pair seeded into a fresh monthly list.
type StarterItem struct {
	Name     string
	Quantity int
}

// StarterItems maps category names to the items a fresh monthly list starts
// with. Categories absent from the map start empty.
var StarterItems = map[string][]StarterItem{
	"Hortifruti": {
		{Name: "Banana", Quantity: 1},
		{Name: "Tomate", Quantity: 1},
		{Name: "Cebola", Quantity: 1},
		{Name: "Batata", Quantity: 2},
		{Name: "Alface", Quantity: 1},
	},
	"Carnes e Peixes": {
		{Name: "Frango", Quantity: 1},
		{Name: "Carne moída", Quantity: 1},
	},
	"Laticínios": {
		{Name: "Leite", Quantity: 2},
		{Name: "Ovos", Quantity: 1},
		{Name: "Manteiga", Quantity: 1},
		{Name: "Queijo", Quantity: 1},
	},
	"Padaria": {
		{Name: "Pão", Quantity: 1},
	},
	"Mercearia": {
		{Name: "Arroz", Quantity: 1},
		{Name: "Feijão", Quantity: 2},
		{Name: "Macarrão", Quantity: 1},
		{Name: "Açúcar", Quantity: 1},
		{Name: "Óleo", Quantity: 1},
		{Name: "Café", Quantity: 1},
	},
	"Bebidas": {
		{Name: "Suco", Quantity: 1},
	},
	"Limpeza": {
		{Name: "Detergente", Quantity: 1},
		{Name: "Sabão em pó", Quantity: 1},
	},
	"Higiene": {
		{Name: "Papel higiênico", Quantity: 1},
		{Name: "Sabonete", Quantity: 2},
	},
}

// Categorize returns the category for the given item name. Matching is
// case-insensitive: exact match first, then substring match. Falls back to
// the Extra category when nothing matches.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return ExtraCategory
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return ExtraCategory
}

var exactMatch = map[string]string{
	// Hortifruti
	"banana":    "Hortifruti",
	"bananas":   "Hortifruti",
	"maçã":      "Hortifruti",
	"laranja":   "Hortifruti",
	"limão":     "Hortifruti",
	"tomate":    "Hortifruti",
	"batata":    "Hortifruti",
	"cebola":    "Hortifruti",
	"alho":      "Hortifruti",
	"alface":    "Hortifruti",
	"cenoura":   "Hortifruti",
	"abobrinha": "Hortifruti",
	"mamão":     "Hortifruti",
	"melancia":  "Hortifruti",
	"abacaxi":   "Hortifruti",
	"manga":     "Hortifruti",
	"couve":     "Hortifruti",
	"brócolis":  "Hortifruti",

	// Carnes e Peixes
	"frango":      "Carnes e Peixes",
	"carne":       "Carnes e Peixes",
	"carne moída": "Carnes e Peixes",
	"picanha":     "Carnes e Peixes",
	"linguiça":    "Carnes e Peixes",
	"bacon":       "Carnes e Peixes",
	"peixe":       "Carnes e Peixes",
	"salmão":      "Carnes e Peixes",
	"camarão":     "Carnes e Peixes",
	"presunto":    "Carnes e Peixes",

	// Laticínios
	"leite":            "Laticínios",
	"ovos":             "Laticínios",
	"manteiga":         "Laticínios",
	"queijo":           "Laticínios",
	"iogurte":          "Laticínios",
	"requeijão":        "Laticínios",
	"creme de leite":   "Laticínios",
	"leite condensado": "Laticínios",

	// Padaria
	"pão":          "Padaria",
	"pão de forma": "Padaria",
	"pão francês":  "Padaria",
	"bolo":         "Padaria",
	"torrada":      "Padaria",

	// Mercearia
	"arroz":           "Mercearia",
	"feijão":          "Mercearia",
	"macarrão":        "Mercearia",
	"açúcar":          "Mercearia",
	"sal":             "Mercearia",
	"óleo":            "Mercearia",
	"azeite":          "Mercearia",
	"vinagre":         "Mercearia",
	"café":            "Mercearia",
	"farinha":         "Mercearia",
	"molho de tomate": "Mercearia",
	"ketchup":         "Mercearia",
	"maionese":        "Mercearia",
	"mostarda":        "Mercearia",
	"aveia":           "Mercearia",
	"mel":             "Mercearia",
	"milho":           "Mercearia",
	"atum":            "Mercearia",
	"sardinha":        "Mercearia",

	// Congelados
	"sorvete":         "Congelados",
	"pizza congelada": "Congelados",
	"lasanha":         "Congelados",
	"nuggets":         "Congelados",

	// Bebidas
	"água":         "Bebidas",
	"suco":         "Bebidas",
	"refrigerante": "Bebidas",
	"cerveja":      "Bebidas",
	"vinho":        "Bebidas",
	"chá":          "Bebidas",

	// Limpeza
	"detergente":     "Limpeza",
	"sabão em pó":    "Limpeza",
	"amaciante":      "Limpeza",
	"água sanitária": "Limpeza",
	"desinfetante":   "Limpeza",
	"esponja":        "Limpeza",
	"saco de lixo":   "Limpeza",
	"papel toalha":   "Limpeza",

	// Higiene
	"papel higiênico": "Higiene",
	"sabonete":        "Higiene",
	"shampoo":         "Higiene",
	"condicionador":   "Higiene",
	"pasta de dente":  "Higiene",
	"creme dental":    "Higiene",
	"desodorante":     "Higiene",
	"fio dental":      "Higiene",
	"absorvente":      "Higiene",
}

type substringEntry struct {
	keyword  string
	category string
}

// Ordered with longer, more specific keywords first so the first hit wins
// deterministically.
var substringMatches = []substringEntry{
	// Carnes e Peixes
	{"peito de frango", "Carnes e Peixes"},
	{"coxa de frango", "Carnes e Peixes"},
	{"carne moída", "Carnes e Peixes"},
	{"costela", "Carnes e Peixes"},
	{"frango", "Carnes e Peixes"},
	{"bife", "Carnes e Peixes"},
	{"peixe", "Carnes e Peixes"},
	{"filé", "Carnes e Peixes"},

	// Laticínios
	{"creme de leite", "Laticínios"},
	{"leite condensado", "Laticínios"},
	{"iogurte", "Laticínios"},
	{"queijo", "Laticínios"},
	{"leite", "Laticínios"},
	{"ovo", "Laticínios"},

	// Hortifruti
	{"pimentão", "Hortifruti"},
	{"batata doce", "Hortifruti"},
	{"cheiro verde", "Hortifruti"},
	{"repolho", "Hortifruti"},
	{"abóbora", "Hortifruti"},
	{"fruta", "Hortifruti"},
	{"verdura", "Hortifruti"},
	{"legume", "Hortifruti"},
	{"banana", "Hortifruti"},
	{"tomate", "Hortifruti"},
	{"batata", "Hortifruti"},
	{"cebola", "Hortifruti"},

	// Padaria
	{"pão", "Padaria"},
	{"bisnaga", "Padaria"},
	{"rosca", "Padaria"},
	{"biscoito", "Padaria"},
	{"bolacha", "Padaria"},

	// Mercearia
	{"molho de tomate", "Mercearia"},
	{"azeite", "Mercearia"},
	{"farinha", "Mercearia"},
	{"macarrão", "Mercearia"},
	{"tempero", "Mercearia"},
	{"enlatado", "Mercearia"},
	{"arroz", "Mercearia"},
	{"feijão", "Mercearia"},
	{"café", "Mercearia"},
	{"açúcar", "Mercearia"},
	{"cereal", "Mercearia"},

	// Congelados
	{"congelad", "Congelados"},
	{"sorvete", "Congelados"},
	{"picolé", "Congelados"},

	// Bebidas
	{"água com gás", "Bebidas"},
	{"refrigerante", "Bebidas"},
	{"cerveja", "Bebidas"},
	{"suco", "Bebidas"},
	{"vinho", "Bebidas"},
	{"água", "Bebidas"},
	{"chá", "Bebidas"},

	// Limpeza
	{"sabão em pó", "Limpeza"},
	{"água sanitária", "Limpeza"},
	{"saco de lixo", "Limpeza"},
	{"papel toalha", "Limpeza"},
	{"limpa", "Limpeza"},
	{"detergente", "Limpeza"},
	{"amaciante", "Limpeza"},
	{"desinfetante", "Limpeza"},
	{"esponja", "Limpeza"},

	// Higiene
	{"papel higiênico", "Higiene"},
	{"pasta de dente", "Higiene"},
	{"creme dental", "Higiene"},
	{"escova de dente", "Higiene"},
	{"sabonete", "Higiene"},
	{"shampoo", "Higiene"},
	{"condicionador", "Higiene"},
	{"desodorante", "Higiene"},
	{"absorvente", "Higiene"},
	{"fralda", "Higiene"},
}
