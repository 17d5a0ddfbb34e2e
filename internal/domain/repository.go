package domain

import (
	"context"
	"time"
)

// CacheStore is the durable barcode→record boundary. Get reports when the
// record was stored so the resolver can apply its freshness policy.
type CacheStore interface {
	Get(ctx context.Context, key string) (*ProductRecord, time.Time, error)
	Put(ctx context.Context, key string, record *ProductRecord) error
	Delete(ctx context.Context, key string) error
}

// CatalogClient looks up product data in a public catalog by barcode.
// Returns ErrProductNotFound when the catalog has no entry.
type CatalogClient interface {
	GetByBarcode(ctx context.Context, barcode string) (*ProductRecord, error)
}

// VisionClient extracts product data from label photos. Both calls may return
// empty or low-confidence data, which callers treat as partial success.
type VisionClient interface {
	AnalyzeFront(ctx context.Context, image []byte) (string, error)
	AnalyzeBack(ctx context.Context, image []byte) (*LabelExtraction, error)
}

// HistoryStore persists completed scans and supplies bounded slices back for
// aggregation
type HistoryStore interface {
	Append(ctx context.Context, item *ScanHistoryItem) error
	List(ctx context.Context, since time.Time) ([]ScanHistoryItem, error)
	Delete(ctx context.Context, id string) error
}
