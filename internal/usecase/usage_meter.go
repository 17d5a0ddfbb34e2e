package usecase

import (
	"sync"

	"github.com/scansafe/backend/internal/domain"
)

// defaultVisionUnitCost is the assumed price of one vision analysis in USD
const defaultVisionUnitCost = 0.01

// UsageMeter tallies which tier answered each completed resolution. Catalog
// calls are free, vision calls cost a configured unit price, and every cache
// hit is priced as one avoided vision call.
type UsageMeter struct {
	mu             sync.Mutex
	cacheCount     int64
	catalogCount   int64
	visionCount    int64
	visionUnitCost float64
}

// NewUsageMeter creates a meter with the given vision unit cost, falling back
// to the default when zero or negative
func NewUsageMeter(visionUnitCost float64) *UsageMeter {
	if visionUnitCost <= 0 {
		visionUnitCost = defaultVisionUnitCost
	}
	return &UsageMeter{visionUnitCost: visionUnitCost}
}

// Record increments the counter for the tier that answered a resolution.
// Called once per completed resolve, coalesced attachments included.
func (m *UsageMeter) Record(tier domain.ResolutionTier) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch tier {
	case domain.TierCache:
		m.cacheCount++
	case domain.TierCatalog:
		m.catalogCount++
	case domain.TierVision:
		m.visionCount++
	}
}

// Snapshot returns current counters plus the derived cost model. Efficiency
// is 0 when nothing has been recorded.
func (m *UsageMeter) Snapshot() domain.UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.cacheCount + m.catalogCount + m.visionCount
	stats := domain.UsageStats{
		TotalAnalyses:   total,
		AIAnalyses:      m.visionCount,
		CacheAnalyses:   m.cacheCount,
		CatalogAnalyses: m.catalogCount,
		EstimatedCost:   float64(m.visionCount) * m.visionUnitCost,
		CacheSavings:    float64(m.cacheCount) * m.visionUnitCost,
	}
	if total > 0 {
		stats.CacheEfficiency = float64(m.cacheCount) / float64(total)
	}
	return stats
}
