package domain

import "time"

// RuleCategory classifies a restriction rule
type RuleCategory string

const (
	CategoryAllergen  RuleCategory = "allergen"
	CategoryDietary   RuleCategory = "dietary"
	CategoryHealth    RuleCategory = "health"
	CategoryReligious RuleCategory = "religious"
)

// Severity levels for violations
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight is the score penalty a violation of this severity carries
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 40
	case SeverityMedium:
		return 20
	case SeverityLow:
		return 10
	}
	return 0
}

// Severity maps a rule category to the severity of its violations.
// Allergen matches dominate; dietary mismatches degrade gracefully.
func (c RuleCategory) Severity() Severity {
	switch c {
	case CategoryAllergen:
		return SeverityHigh
	case CategoryHealth, CategoryReligious:
		return SeverityMedium
	case CategoryDietary:
		return SeverityLow
	}
	return SeverityMedium
}

// RestrictionRule is one named restriction with its keyword stems.
// Rules are immutable for the lifetime of a session and owned by value by the
// profile referencing them.
type RestrictionRule struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category RuleCategory `json:"category"`
	Keywords []string     `json:"keywords"`
	Enabled  bool         `json:"enabled"`
}

// Profile is one active restriction set. Its effective restrictions are the
// union of its enabled rules' keywords and its custom terms; a profile with
// neither is vacuously compatible with everything.
type Profile struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Active      bool              `json:"active"`
	Rules       []RestrictionRule `json:"rules,omitempty"`
	CustomTerms []string          `json:"customTerms,omitempty"`
	CreatedAt   time.Time         `json:"createdAt,omitempty"`
}

// builtinRules is the catalog of predefined restrictions selectable by id.
// Keywords include Spanish label terms since packaged goods frequently carry
// bilingual ingredient lists.
var builtinRules = []RestrictionRule{
	{ID: "gluten", Name: "Gluten", Category: CategoryAllergen,
		Keywords: []string{"gluten", "wheat", "barley", "rye", "malt", "trigo", "cebada", "centeno"}},
	{ID: "milk", Name: "Milk / Lactose", Category: CategoryAllergen,
		Keywords: []string{"milk", "lactose", "whey", "casein", "butter", "cream", "leche", "lactosa", "suero", "mantequilla", "nata"}},
	{ID: "egg", Name: "Egg", Category: CategoryAllergen,
		Keywords: []string{"egg", "albumin", "huevo", "albumina"}},
	{ID: "peanut", Name: "Peanut", Category: CategoryAllergen,
		Keywords: []string{"peanut", "cacahuete", "mani"}},
	{ID: "tree-nut", Name: "Tree nuts", Category: CategoryAllergen,
		Keywords: []string{"almond", "hazelnut", "walnut", "cashew", "pistachio", "pecan", "almendra", "avellana", "nuez", "anacardo", "pistacho"}},
	{ID: "soy", Name: "Soy", Category: CategoryAllergen,
		Keywords: []string{"soy", "soya", "soja", "lecithin", "lecitina"}},
	{ID: "fish", Name: "Fish", Category: CategoryAllergen,
		Keywords: []string{"fish", "anchovy", "pescado", "anchoa", "atun", "salmon"}},
	{ID: "shellfish", Name: "Shellfish", Category: CategoryAllergen,
		Keywords: []string{"shrimp", "crab", "lobster", "prawn", "crustacean", "camaron", "cangrejo", "langosta", "crustaceo"}},
	{ID: "sesame", Name: "Sesame", Category: CategoryAllergen,
		Keywords: []string{"sesame", "tahini", "sesamo", "ajonjoli"}},
	{ID: "mustard", Name: "Mustard", Category: CategoryAllergen,
		Keywords: []string{"mustard", "mostaza"}},
	{ID: "vegan", Name: "Vegan", Category: CategoryDietary,
		Keywords: []string{"milk", "egg", "honey", "gelatin", "meat", "chicken", "beef", "pork", "fish", "whey", "casein", "lard", "leche", "huevo", "miel", "gelatina", "carne", "pollo", "cerdo", "manteca"}},
	{ID: "vegetarian", Name: "Vegetarian", Category: CategoryDietary,
		Keywords: []string{"meat", "chicken", "beef", "pork", "fish", "gelatin", "lard", "carne", "pollo", "cerdo", "pescado", "gelatina", "manteca"}},
	{ID: "low-sugar", Name: "Low sugar", Category: CategoryHealth,
		Keywords: []string{"sugar", "syrup", "fructose", "dextrose", "sucrose", "azucar", "jarabe", "fructosa", "dextrosa"}},
	{ID: "low-sodium", Name: "Low sodium", Category: CategoryHealth,
		Keywords: []string{"salt", "sodium", "monosodium", "sal", "sodio"}},
	{ID: "no-caffeine", Name: "Caffeine free", Category: CategoryHealth,
		Keywords: []string{"caffeine", "coffee", "guarana", "cafeina", "cafe"}},
	{ID: "halal", Name: "Halal", Category: CategoryReligious,
		Keywords: []string{"pork", "lard", "gelatin", "alcohol", "wine", "bacon", "ham", "cerdo", "manteca", "gelatina", "vino", "tocino", "jamon"}},
	{ID: "kosher", Name: "Kosher", Category: CategoryReligious,
		Keywords: []string{"pork", "shellfish", "shrimp", "crab", "lard", "bacon", "ham", "cerdo", "camaron", "cangrejo", "manteca", "tocino", "jamon"}},
	{ID: "no-alcohol", Name: "No alcohol", Category: CategoryReligious,
		Keywords: []string{"alcohol", "wine", "beer", "rum", "liquor", "vino", "cerveza", "ron", "licor"}},
}

// BuiltinRules returns a copy of the predefined restriction catalog, enabled.
func BuiltinRules() []RestrictionRule {
	out := make([]RestrictionRule, len(builtinRules))
	copy(out, builtinRules)
	for i := range out {
		out[i].Enabled = true
		out[i].Keywords = append([]string(nil), builtinRules[i].Keywords...)
	}
	return out
}

// BuiltinRule looks up one predefined rule by id. The returned rule is a copy
// with Enabled set; the second value reports whether the id is known.
func BuiltinRule(id string) (RestrictionRule, bool) {
	for _, r := range builtinRules {
		if r.ID == id {
			r.Enabled = true
			r.Keywords = append([]string(nil), r.Keywords...)
			return r, true
		}
	}
	return RestrictionRule{}, false
}
