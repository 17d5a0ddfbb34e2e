package usecase

import (
	"testing"

	"github.com/scansafe/backend/internal/domain"
)

func allergenProfile(id string, keywords ...string) domain.Profile {
	return domain.Profile{
		ID:     id,
		Name:   "Allergies",
		Active: true,
		Rules: []domain.RestrictionRule{
			{ID: "rule-1", Name: "Dairy", Category: domain.CategoryAllergen, Keywords: keywords, Enabled: true},
		},
	}
}

func TestAnalyze(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{})

	t.Run("empty product text yields no violations and a warning", func(t *testing.T) {
		product := &domain.ProductRecord{Barcode: "1", Name: "Mystery", Ingredients: "", Allergens: ""}
		report := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")})

		result := report.Results["p1"]
		if len(result.Violations) != 0 {
			t.Errorf("violations = %d, want 0", len(result.Violations))
		}
		if !result.Compatible {
			t.Error("product without data should be compatible")
		}
		if len(result.Warnings) == 0 {
			t.Error("expected a missing-data warning")
		}
		if report.AnyIncompatible {
			t.Error("AnyIncompatible should be false")
		}
	})

	t.Run("profile with no restrictions is vacuously compatible", func(t *testing.T) {
		product := &domain.ProductRecord{Ingredients: "milk, wheat, peanuts", Allergens: "milk"}
		report := analyzer.Analyze(product, []domain.Profile{{ID: "p1", Name: "Empty", Active: true}})

		result := report.Results["p1"]
		if !result.Compatible {
			t.Error("empty profile should be compatible with anything")
		}
		if result.Score != 100 {
			t.Errorf("Score = %d, want 100", result.Score)
		}
	})

	t.Run("keyword present in allergens yields a high-severity violation", func(t *testing.T) {
		product := &domain.ProductRecord{
			Barcode:   "0123456789012",
			Allergens: "contiene leche y gluten",
			Tier:      domain.TierVision,
		}
		report := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "leche")})

		result := report.Results["p1"]
		if result.Compatible {
			t.Error("expected incompatible result")
		}
		if len(result.Violations) != 1 {
			t.Fatalf("violations = %d, want 1", len(result.Violations))
		}
		if result.Violations[0].Severity != domain.SeverityHigh {
			t.Errorf("Severity = %s, want high", result.Violations[0].Severity)
		}
		if result.Violations[0].Restriction != "Dairy" {
			t.Errorf("Restriction = %s, want Dairy", result.Violations[0].Restriction)
		}
		if result.Score != 60 {
			t.Errorf("Score = %d, want 60 (100 - 40)", result.Score)
		}
		if !report.AnyIncompatible {
			t.Error("AnyIncompatible should be true")
		}
	})

	t.Run("keyword absent never yields a violation", func(t *testing.T) {
		product := &domain.ProductRecord{Ingredients: "water, salt", Allergens: ""}
		report := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")})
		if !report.Results["p1"].Compatible {
			t.Error("no keyword present, expected compatible")
		}
	})

	t.Run("severity maps to category and custom terms are medium", func(t *testing.T) {
		product := &domain.ProductRecord{Ingredients: "pork gelatin, sugar, carrageenan"}
		profile := domain.Profile{
			ID:     "p1",
			Active: true,
			Rules: []domain.RestrictionRule{
				{ID: "r1", Name: "Halal", Category: domain.CategoryReligious, Keywords: []string{"pork"}, Enabled: true},
				{ID: "r2", Name: "Low sugar", Category: domain.CategoryHealth, Keywords: []string{"sugar"}, Enabled: true},
				{ID: "r3", Name: "Vegan", Category: domain.CategoryDietary, Keywords: []string{"gelatin"}, Enabled: true},
			},
			CustomTerms: []string{"carrageenan"},
		}

		result := analyzer.Analyze(product, []domain.Profile{profile}).Results["p1"]
		severities := map[string]domain.Severity{}
		for _, v := range result.Violations {
			severities[v.Restriction] = v.Severity
		}

		if severities["Halal"] != domain.SeverityMedium {
			t.Errorf("religious severity = %s, want medium", severities["Halal"])
		}
		if severities["Low sugar"] != domain.SeverityMedium {
			t.Errorf("health severity = %s, want medium", severities["Low sugar"])
		}
		if severities["Vegan"] != domain.SeverityLow {
			t.Errorf("dietary severity = %s, want low", severities["Vegan"])
		}
		if severities["carrageenan"] != domain.SeverityMedium {
			t.Errorf("custom severity = %s, want medium", severities["carrageenan"])
		}

		// 100 - 20 - 20 - 10 - 20
		if result.Score != 30 {
			t.Errorf("Score = %d, want 30", result.Score)
		}
	})

	t.Run("score floors at zero", func(t *testing.T) {
		product := &domain.ProductRecord{Allergens: "milk, wheat, egg, soy"}
		profile := domain.Profile{
			ID:     "p1",
			Active: true,
			Rules: []domain.RestrictionRule{
				{ID: "r1", Name: "Milk", Category: domain.CategoryAllergen, Keywords: []string{"milk"}, Enabled: true},
				{ID: "r2", Name: "Gluten", Category: domain.CategoryAllergen, Keywords: []string{"wheat"}, Enabled: true},
				{ID: "r3", Name: "Egg", Category: domain.CategoryAllergen, Keywords: []string{"egg"}, Enabled: true},
			},
		}

		result := analyzer.Analyze(product, []domain.Profile{profile}).Results["p1"]
		if result.Score != 0 {
			t.Errorf("Score = %d, want 0 (floored)", result.Score)
		}
	})

	t.Run("allergen-field hit wins over ingredient hit for the same rule", func(t *testing.T) {
		product := &domain.ProductRecord{
			Ingredients: "milk solids, sugar",
			Allergens:   "milk",
		}
		result := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")}).Results["p1"]

		if len(result.Violations) != 1 {
			t.Fatalf("violations = %d, want 1 (deduplicated per restriction)", len(result.Violations))
		}
		if result.Violations[0].Reason != `"milk" listed in allergens` {
			t.Errorf("Reason = %q, want allergens-sourced reason", result.Violations[0].Reason)
		}
	})

	t.Run("low confidence extraction adds a warning", func(t *testing.T) {
		product := &domain.ProductRecord{Ingredients: "water", LowConfidence: true}
		result := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")}).Results["p1"]
		if len(result.Warnings) == 0 {
			t.Error("expected a low-confidence warning")
		}
	})

	t.Run("label advisory warnings pass through", func(t *testing.T) {
		product := &domain.ProductRecord{
			Ingredients:   "cocoa",
			LabelWarnings: []string{"may contain traces of nuts"},
		}
		result := analyzer.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")}).Results["p1"]
		found := false
		for _, w := range result.Warnings {
			if w == "may contain traces of nuts" {
				found = true
			}
		}
		if !found {
			t.Error("label warning should surface in analysis warnings")
		}
	})

	t.Run("one result per profile with aggregate flag", func(t *testing.T) {
		product := &domain.ProductRecord{Allergens: "milk"}
		profiles := []domain.Profile{
			allergenProfile("p1", "milk"),
			allergenProfile("p2", "peanut"),
		}
		report := analyzer.Analyze(product, profiles)

		if len(report.Results) != 2 {
			t.Fatalf("results = %d, want 2", len(report.Results))
		}
		if report.Results["p1"].Compatible {
			t.Error("p1 should be incompatible")
		}
		if !report.Results["p2"].Compatible {
			t.Error("p2 should be compatible")
		}
		if !report.AnyIncompatible {
			t.Error("AnyIncompatible should be true when any profile fails")
		}
	})

	t.Run("ingredient hit discount lowers severity when enabled", func(t *testing.T) {
		discounting := NewAnalyzer(AnalyzerConfig{IngredientHitDiscount: true})
		product := &domain.ProductRecord{Ingredients: "milk solids"}

		result := discounting.Analyze(product, []domain.Profile{allergenProfile("p1", "milk")}).Results["p1"]
		if len(result.Violations) != 1 {
			t.Fatalf("violations = %d, want 1", len(result.Violations))
		}
		if result.Violations[0].Severity != domain.SeverityMedium {
			t.Errorf("Severity = %s, want medium (discounted from high)", result.Violations[0].Severity)
		}
	})
}
