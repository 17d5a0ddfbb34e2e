package domain

import "time"

// ResolutionTier identifies which stage of the resolution chain produced a record
type ResolutionTier string

const (
	TierCache   ResolutionTier = "cache"
	TierCatalog ResolutionTier = "catalog"
	TierVision  ResolutionTier = "vision"
)

// ProductRecord is the normalized product shape shared by every tier.
// Ingredients and Allergens are always present as strings; a product with no
// ingredient data carries "" rather than a missing field, because the analyzer
// matches against them unconditionally.
type ProductRecord struct {
	Barcode       string         `json:"barcode"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand,omitempty"`
	Ingredients   string         `json:"ingredients"`
	Allergens     string         `json:"allergens"`
	NutriScore    string         `json:"nutriScore,omitempty"`
	EcoScore      string         `json:"ecoScore,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	LabelWarnings []string       `json:"labelWarnings,omitempty"`
	LowConfidence bool           `json:"lowConfidence,omitempty"`
	Tier          ResolutionTier `json:"tier"`
	ResolvedAt    time.Time      `json:"resolvedAt"`
}

// LabelExtraction is what vision analysis reads off a product's back label.
// Empty fields and LowConfidence are partial successes, not errors.
type LabelExtraction struct {
	Ingredients   string   `json:"ingredients"`
	Allergens     string   `json:"allergens"`
	Warnings      []string `json:"warnings,omitempty"`
	LowConfidence bool     `json:"lowConfidence,omitempty"`
}

// ScanHistoryItem snapshots one completed scan. Immutable after creation;
// removed only by explicit user deletion.
type ScanHistoryItem struct {
	ID              string                    `json:"id"`
	Product         ProductRecord             `json:"product"`
	Results         map[string]AnalysisResult `json:"results"` // keyed by profile id
	AnyIncompatible bool                      `json:"anyIncompatible"`
	ScannedAt       time.Time                 `json:"scannedAt"`
	Latitude        *float64                  `json:"latitude,omitempty"`
	Longitude       *float64                  `json:"longitude,omitempty"`
}
