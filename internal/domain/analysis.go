package domain

// Violation is one restriction rule or custom term matched against product text
type Violation struct {
	Restriction string   `json:"restriction"`
	Reason      string   `json:"reason"`
	Severity    Severity `json:"severity"`
}

// AnalysisResult is the compatibility verdict for one (product, profile) pair
type AnalysisResult struct {
	Compatible bool        `json:"compatible"`
	Violations []Violation `json:"violations"`
	Warnings   []string    `json:"warnings,omitempty"`
	Score      int         `json:"score"` // 0-100
}

// AnalysisReport groups per-profile results for a single product
type AnalysisReport struct {
	Results         map[string]AnalysisResult `json:"results"` // keyed by profile id
	AnyIncompatible bool                      `json:"anyIncompatible"`
}

// UsageStats are derived tier counters and the cost model built on them.
// Recomputed from meter state on demand, never persisted.
type UsageStats struct {
	TotalAnalyses   int64   `json:"totalAnalyses"`
	AIAnalyses      int64   `json:"aiAnalyses"`
	CacheAnalyses   int64   `json:"cacheAnalyses"`
	CatalogAnalyses int64   `json:"catalogAnalyses"`
	EstimatedCost   float64 `json:"estimatedCost"`
	CacheSavings    float64 `json:"cacheSavings"`
	CacheEfficiency float64 `json:"cacheEfficiency"`
}

// ProductFrequency is one entry of the most-scanned-products ranking,
// carrying a representative history item for display.
type ProductFrequency struct {
	Barcode string          `json:"barcode"`
	Count   int             `json:"count"`
	Item    ScanHistoryItem `json:"item"`
}

// ViolationFrequency is one entry of the most-frequent-violations ranking
type ViolationFrequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// InsightsData summarizes a window of scan history
type InsightsData struct {
	TotalScans        int                  `json:"totalScans"`
	CompatibleScans   int                  `json:"compatibleScans"`
	IncompatibleScans int                  `json:"incompatibleScans"`
	CompatibilityRate float64              `json:"compatibilityRate"`
	AverageScore      float64              `json:"averageScore"`
	TopProducts       []ProductFrequency   `json:"topProducts"`
	TopViolations     []ViolationFrequency `json:"topViolations"`
	DailyScans        map[string]int       `json:"dailyScans"` // keyed by YYYY-MM-DD
	Usage             UsageStats           `json:"usage"`
}
