package usecase

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/scansafe/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Default resolver timings
const (
	defaultFreshnessWindow = 720 * time.Hour // packaged-product data changes rarely
	defaultCatalogTimeout  = 10 * time.Second
	defaultVisionTimeout   = 45 * time.Second
)

// ResolverConfig holds configuration for the tiered resolver
type ResolverConfig struct {
	FreshnessWindow time.Duration
	CatalogTimeout  time.Duration
	VisionTimeout   time.Duration
}

// Resolver walks the cache → catalog → vision chain for each request, in that
// strict order: vision is the most expensive tier and is always attempted
// last. Concurrent requests for the same key coalesce onto a single in-flight
// chain; independent keys resolve without coordination.
type Resolver struct {
	cache   domain.CacheStore
	catalog domain.CatalogClient
	vision  domain.VisionClient
	meter   *UsageMeter

	freshnessWindow time.Duration
	catalogTimeout  time.Duration
	visionTimeout   time.Duration

	group singleflight.Group
}

// NewResolver creates a tiered resolver. vision may be nil, which disables the
// fallback tier; cache and meter are required.
func NewResolver(
	cache domain.CacheStore,
	catalog domain.CatalogClient,
	vision domain.VisionClient,
	meter *UsageMeter,
	config ResolverConfig,
) *Resolver {
	freshness := config.FreshnessWindow
	if freshness <= 0 {
		freshness = defaultFreshnessWindow
	}
	catalogTimeout := config.CatalogTimeout
	if catalogTimeout <= 0 {
		catalogTimeout = defaultCatalogTimeout
	}
	visionTimeout := config.VisionTimeout
	if visionTimeout <= 0 {
		visionTimeout = defaultVisionTimeout
	}

	return &Resolver{
		cache:           cache,
		catalog:         catalog,
		vision:          vision,
		meter:           meter,
		freshnessWindow: freshness,
		catalogTimeout:  catalogTimeout,
		visionTimeout:   visionTimeout,
	}
}

// resolveRequest carries everything one resolution needs past the coalescing
// boundary
type resolveRequest struct {
	key     string
	barcode string
	front   []byte
	back    []byte
}

// Resolve resolves a product by barcode
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}
	return r.resolve(ctx, &resolveRequest{key: barcode, barcode: barcode})
}

// ResolvePhotos resolves a product from a front/back photo pair, optionally
// with a barcode. Without a barcode the resolution is keyed by a content hash
// of the photos so a retry of the same pair coalesces and cache-hits.
func (r *Resolver) ResolvePhotos(ctx context.Context, barcode string, front, back []byte) (*domain.ProductRecord, error) {
	if barcode == "" && len(front) == 0 && len(back) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	key := barcode
	if key == "" {
		key = photoKey(front, back)
	}
	return r.resolve(ctx, &resolveRequest{key: key, barcode: barcode, front: front, back: back})
}

// resolve coalesces concurrent calls per key. The chain runs detached from
// any single caller's cancellation since attached callers still need the
// result. Each completed call records its answering tier, coalesced
// attachments included.
func (r *Resolver) resolve(ctx context.Context, req *resolveRequest) (*domain.ProductRecord, error) {
	chainCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(req.key, func() (interface{}, error) {
		return r.resolveKey(chainCtx, req)
	})
	if err != nil {
		return nil, err
	}

	// callers hold independent read-only copies
	record := *v.(*domain.ProductRecord)
	if r.meter != nil {
		r.meter.Record(record.Tier)
	}
	return &record, nil
}

// resolveKey runs the tier chain for one key
func (r *Resolver) resolveKey(ctx context.Context, req *resolveRequest) (*domain.ProductRecord, error) {
	record, storedAt, err := r.cache.Get(ctx, req.key)
	if err == nil {
		record.Tier = domain.TierCache
		if time.Since(storedAt) > r.freshnessWindow {
			// stale-while-revalidate: serve the stale copy immediately and
			// refresh off the request path
			go r.refresh(req)
		}
		return record, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[RESOLVER] cache lookup failed for %s: %v", req.key, err)
	}

	return r.resolveRemote(ctx, req)
}

// resolveRemote tries catalog then vision, writing through to the cache on
// success. Tier timeouts and failures are absorbed here as that tier's miss.
func (r *Resolver) resolveRemote(ctx context.Context, req *resolveRequest) (*domain.ProductRecord, error) {
	if req.barcode != "" && r.catalog != nil {
		record, err := r.fromCatalog(ctx, req.barcode)
		if err == nil {
			r.writeThrough(ctx, req.key, record)
			return record, nil
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			log.Printf("[RESOLVER] catalog tier miss for %s: %v", req.barcode, err)
		}
	}

	if len(req.front) == 0 && len(req.back) == 0 {
		// no photos, nothing left to try: the product is confirmed unknown
		return nil, domain.ErrProductNotFound
	}
	if r.vision == nil {
		log.Printf("[RESOLVER] vision tier unavailable for %s", req.key)
		return nil, domain.ErrUnresolved
	}

	record, err := r.fromVision(ctx, req)
	if err != nil {
		log.Printf("[RESOLVER] vision tier failed for %s: %v", req.key, err)
		return nil, domain.ErrUnresolved
	}
	r.writeThrough(ctx, req.key, record)
	return record, nil
}

// fromCatalog queries the catalog tier under its own timeout budget
func (r *Resolver) fromCatalog(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.catalogTimeout)
	defer cancel()

	record, err := r.catalog.GetByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: catalog lookup for %s", domain.ErrTierTimeout, barcode)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTierFailure, err)
	}

	record.Tier = domain.TierCatalog
	record.ResolvedAt = time.Now()
	return record, nil
}

// fromVision extracts a record from the photo pair. One failing call out of
// two is a partial success flagged low-confidence; only a fully empty-handed
// attempt is an error.
func (r *Resolver) fromVision(ctx context.Context, req *resolveRequest) (*domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.visionTimeout)
	defer cancel()

	record := &domain.ProductRecord{
		Barcode:    req.barcode,
		Tier:       domain.TierVision,
		ResolvedAt: time.Now(),
	}

	attempted, failed := 0, 0
	if len(req.front) > 0 {
		attempted++
		name, err := r.vision.AnalyzeFront(ctx, req.front)
		if err != nil {
			failed++
			log.Printf("[RESOLVER] front photo analysis failed: %v", err)
		} else {
			record.Name = name
		}
	}
	if len(req.back) > 0 {
		attempted++
		label, err := r.vision.AnalyzeBack(ctx, req.back)
		if err != nil {
			failed++
			log.Printf("[RESOLVER] back photo analysis failed: %v", err)
		} else {
			record.Ingredients = label.Ingredients
			record.Allergens = label.Allergens
			record.LabelWarnings = label.Warnings
			record.LowConfidence = label.LowConfidence
		}
	}

	if failed == attempted {
		return nil, fmt.Errorf("%w: vision analysis produced no data", domain.ErrTierFailure)
	}
	if failed > 0 {
		record.LowConfidence = true
	}
	if record.Name == "" {
		record.Name = "Unknown product"
	}
	return record, nil
}

// writeThrough populates the cache after any successful non-cache resolution.
// A record resolved under a photo-hash key that carries a barcode is indexed
// under the barcode as well, so a later barcode scan hits the cache.
func (r *Resolver) writeThrough(ctx context.Context, key string, record *domain.ProductRecord) {
	if err := r.cache.Put(ctx, key, record); err != nil {
		log.Printf("[RESOLVER] cache write-through failed for %s: %v", key, err)
	}
	if record.Barcode != "" && record.Barcode != key {
		if err := r.cache.Put(ctx, record.Barcode, record); err != nil {
			log.Printf("[RESOLVER] cache write-through failed for %s: %v", record.Barcode, err)
		}
	}
}

// refresh re-runs the remote chain for a stale key in the background.
// Coalesced under its own key so concurrent stale hits trigger one refresh;
// errors are swallowed since a value was already served.
func (r *Resolver) refresh(req *resolveRequest) {
	r.group.Do("refresh:"+req.key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), r.catalogTimeout+r.visionTimeout)
		defer cancel()

		record, err := r.resolveRemote(ctx, req)
		if err != nil {
			log.Printf("[RESOLVER] background refresh failed for %s: %v", req.key, err)
			return nil, nil
		}
		return record, nil
	})
}

// photoKey derives a stable resolution key from a photo pair
func photoKey(front, back []byte) string {
	h := sha256.New()
	h.Write(front)
	h.Write(back)
	return fmt.Sprintf("photo:%x", h.Sum(nil))
}
