package usecase

import (
	"sort"
	"time"

	"github.com/scansafe/backend/internal/domain"
)

// defaultTopN bounds the product and violation rankings
const defaultTopN = 5

// InsightsAggregator folds a bounded slice of scan history into summary
// statistics. Pure and synchronous; it operates on the snapshot it is given,
// never on a live collection.
type InsightsAggregator struct {
	meter *UsageMeter
	topN  int
}

// NewInsightsAggregator creates an aggregator. The meter supplies usage stats
// for each summary; topN defaults when zero or negative.
func NewInsightsAggregator(meter *UsageMeter, topN int) *InsightsAggregator {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &InsightsAggregator{meter: meter, topN: topN}
}

// Aggregate summarizes the given history items. Items older than windowDays
// are excluded when windowDays is positive; callers normally pre-filter, so
// this is just a guard. An empty history yields all-zero statistics.
func (a *InsightsAggregator) Aggregate(items []domain.ScanHistoryItem, windowDays int) *domain.InsightsData {
	if windowDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -windowDays)
		filtered := make([]domain.ScanHistoryItem, 0, len(items))
		for _, item := range items {
			if !item.ScannedAt.Before(cutoff) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	data := &domain.InsightsData{
		TopProducts:   []domain.ProductFrequency{},
		TopViolations: []domain.ViolationFrequency{},
		DailyScans:    make(map[string]int),
	}
	if a.meter != nil {
		data.Usage = a.meter.Snapshot()
	}

	scoreSum, scoreCount := 0, 0
	products := make(map[string]*domain.ProductFrequency)
	violationCounts := make(map[string]int)
	violationLatest := make(map[string]time.Time)

	for _, item := range items {
		data.TotalScans++
		if item.AnyIncompatible {
			data.IncompatibleScans++
		} else {
			data.CompatibleScans++
		}

		data.DailyScans[item.ScannedAt.Format("2006-01-02")]++

		for _, result := range item.Results {
			scoreSum += result.Score
			scoreCount++
			for _, v := range result.Violations {
				violationCounts[v.Restriction]++
				if item.ScannedAt.After(violationLatest[v.Restriction]) {
					violationLatest[v.Restriction] = item.ScannedAt
				}
			}
		}

		key := item.Product.Barcode
		if key == "" {
			key = item.Product.Name
		}
		if freq, ok := products[key]; ok {
			freq.Count++
			if item.ScannedAt.After(freq.Item.ScannedAt) {
				freq.Item = item
			}
		} else {
			products[key] = &domain.ProductFrequency{
				Barcode: item.Product.Barcode,
				Count:   1,
				Item:    item,
			}
		}
	}

	if data.TotalScans > 0 {
		data.CompatibilityRate = float64(data.CompatibleScans) / float64(data.TotalScans)
	}
	if scoreCount > 0 {
		data.AverageScore = float64(scoreSum) / float64(scoreCount)
	}

	for _, freq := range products {
		data.TopProducts = append(data.TopProducts, *freq)
	}
	// count desc, then most recent occurrence
	sort.Slice(data.TopProducts, func(i, j int) bool {
		if data.TopProducts[i].Count != data.TopProducts[j].Count {
			return data.TopProducts[i].Count > data.TopProducts[j].Count
		}
		return data.TopProducts[i].Item.ScannedAt.After(data.TopProducts[j].Item.ScannedAt)
	})
	if len(data.TopProducts) > a.topN {
		data.TopProducts = data.TopProducts[:a.topN]
	}

	for name, count := range violationCounts {
		data.TopViolations = append(data.TopViolations, domain.ViolationFrequency{Name: name, Count: count})
	}
	sort.Slice(data.TopViolations, func(i, j int) bool {
		vi, vj := data.TopViolations[i], data.TopViolations[j]
		if vi.Count != vj.Count {
			return vi.Count > vj.Count
		}
		return violationLatest[vi.Name].After(violationLatest[vj.Name])
	})
	if len(data.TopViolations) > a.topN {
		data.TopViolations = data.TopViolations[:a.topN]
	}

	return data
}
