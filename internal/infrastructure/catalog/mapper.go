package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/scansafe/backend/internal/domain"
)

// placeholderName is used when no name variant is present at all
const placeholderName = "Unknown product"

// languageTagRegex strips Open Food Facts language prefixes like "en:" from
// allergen tag lists
var languageTagRegex = regexp.MustCompile(`\b[a-z]{2}:`)

// MapProduct normalizes a raw catalog payload into a ProductRecord. Field
// names vary by locale; the localized variant is preferred, then the default,
// then a generic placeholder. Ingredients and allergens map to "" when
// absent, never to a missing field.
func MapProduct(barcode, locale string, fields map[string]interface{}) *domain.ProductRecord {
	name := firstField(fields, "product_name_"+locale, "product_name", "generic_name_"+locale, "generic_name")
	if name == "" {
		name = placeholderName
	}

	allergens := firstField(fields, "allergens_from_ingredients", "allergens")

	return &domain.ProductRecord{
		Barcode:     barcode,
		Name:        name,
		Brand:       firstField(fields, "brands"),
		Ingredients: firstField(fields, "ingredients_text_"+locale, "ingredients_text"),
		Allergens:   stripLanguageTags(allergens),
		NutriScore:  firstField(fields, "nutriscore_grade", "nutrition_grades"),
		EcoScore:    firstField(fields, "ecoscore_grade"),
		ImageURL:    firstField(fields, "image_front_url", "image_url"),
		Tier:        domain.TierCatalog,
		ResolvedAt:  time.Now(),
	}
}

// firstField returns the first non-empty string value among keys
func firstField(fields map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stripLanguageTags turns "en:milk,en:gluten" into "milk, gluten"
func stripLanguageTags(s string) string {
	if s == "" {
		return ""
	}
	s = languageTagRegex.ReplaceAllString(s, "")
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}
