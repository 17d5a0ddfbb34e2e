package usecase

import (
	"fmt"

	"github.com/scansafe/backend/internal/domain"
)

// AnalyzerConfig holds configuration for the compliance analyzer
type AnalyzerConfig struct {
	// IngredientHitDiscount lowers by one level the severity of hits found
	// only in the free-text ingredients list, not in the dedicated allergens
	// field. Off by default: both sources carry full severity.
	IngredientHitDiscount bool
}

// Analyzer evaluates products against restriction profiles. It is a pure
// function of its inputs: no network, no persistence, and it never errors.
// Missing product data becomes a warning, not a failure.
type Analyzer struct {
	ingredientHitDiscount bool
}

// NewAnalyzer creates a compliance analyzer with the given configuration
func NewAnalyzer(config AnalyzerConfig) *Analyzer {
	return &Analyzer{ingredientHitDiscount: config.IngredientHitDiscount}
}

// Analyze evaluates one product against every supplied profile and returns one
// result per profile id, plus an aggregate any-incompatible flag.
func (a *Analyzer) Analyze(product *domain.ProductRecord, profiles []domain.Profile) *domain.AnalysisReport {
	report := &domain.AnalysisReport{
		Results: make(map[string]domain.AnalysisResult, len(profiles)),
	}
	for i := range profiles {
		result := a.analyzeProfile(product, &profiles[i])
		report.Results[profiles[i].ID] = result
		if !result.Compatible {
			report.AnyIncompatible = true
		}
	}
	return report
}

// analyzeProfile runs the match and classification for a single profile.
// Allergen-field and ingredient-text matches are kept separate: the allergens
// field is authoritative, so when a restriction hits in both only the
// allergens hit is reported.
func (a *Analyzer) analyzeProfile(product *domain.ProductRecord, profile *domain.Profile) domain.AnalysisResult {
	idx := BuildRestrictionIndex(profile)

	var violations []domain.Violation
	seen := make(map[string]bool)

	for _, hit := range idx.Match(product.Allergens) {
		if seen[hit.Restriction] {
			continue
		}
		seen[hit.Restriction] = true
		violations = append(violations, domain.Violation{
			Restriction: hit.Restriction,
			Reason:      fmt.Sprintf("%q listed in allergens", hit.Term),
			Severity:    severityFor(hit),
		})
	}

	for _, hit := range idx.Match(product.Ingredients) {
		if seen[hit.Restriction] {
			continue
		}
		seen[hit.Restriction] = true
		severity := severityFor(hit)
		if a.ingredientHitDiscount {
			severity = discount(severity)
		}
		violations = append(violations, domain.Violation{
			Restriction: hit.Restriction,
			Reason:      fmt.Sprintf("%q found in ingredients list", hit.Term),
			Severity:    severity,
		})
	}

	score := 100
	for _, v := range violations {
		score -= v.Severity.Weight()
	}
	if score < 0 {
		score = 0
	}

	var warnings []string
	if product.Ingredients == "" {
		warnings = append(warnings, "no ingredient data available; result may be unreliable")
	}
	if product.LowConfidence {
		warnings = append(warnings, "label data was extracted with low confidence")
	}
	warnings = append(warnings, product.LabelWarnings...)

	return domain.AnalysisResult{
		Compatible: len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
		Score:      score,
	}
}

// severityFor maps a hit to its violation severity. Custom terms are
// user-declared but not professionally categorized, so they sit at medium.
func severityFor(hit KeywordHit) domain.Severity {
	if hit.Custom {
		return domain.SeverityMedium
	}
	return hit.Category.Severity()
}

// discount lowers a severity by one level, bottoming out at low
func discount(s domain.Severity) domain.Severity {
	switch s {
	case domain.SeverityHigh:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
