package usecase

import (
	"context"
	"log"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultCatalogTryTimeout = 9 * time.Second
	DefaultCatalogRetryDelay = 400 * time.Millisecond
	DefaultCatalogCacheTTL   = 10 * time.Minute
	DefaultSuggestedPrice    = 12000.0

	catalogMaxItems = 8
	catalogRetries  = 1
	catalogCacheKey = "desserts"
)

var (
	catalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loncheras_catalog_cache_hits_total",
		Help: "Catalog lookups served from the in-memory cache.",
	})
	catalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loncheras_catalog_cache_misses_total",
		Help: "Catalog lookups that went to the external provider.",
	})
	catalogFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loncheras_catalog_fallback_total",
		Help: "Catalog lookups answered with the static fallback list.",
	})
)

// FallbackCatalog is served when the provider keeps failing.
var FallbackCatalog = []entities.CatalogProduct{
	{Name: "Barra de avena", SuggestedPrice: DefaultSuggestedPrice},
	{Name: "Mix frutos secos", SuggestedPrice: DefaultSuggestedPrice},
	{Name: "Jugo natural 300ml", SuggestedPrice: DefaultSuggestedPrice},
}

// ICatalogUseCase lists the products a distributor can add to a quote.

type ICatalogUseCase interface {
	LoadCatalog(ctx context.Context) ([]entities.CatalogProduct, error)
}

type CatalogUseCase struct {
	provider   interfaces.ICatalogProvider
	cache      *expirable.LRU[string, []entities.CatalogProduct]
	tryTimeout time.Duration
	retryDelay time.Duration
}

var _ ICatalogUseCase = (*CatalogUseCase)(nil)

type CatalogUseCaseOption func(*CatalogUseCase)

func WithCatalogTryTimeout(d time.Duration) CatalogUseCaseOption {
	return func(u *CatalogUseCase) {
		if d > 0 {
			u.tryTimeout = d
		}
	}
}

func WithCatalogRetryDelay(d time.Duration) CatalogUseCaseOption {
	return func(u *CatalogUseCase) {
		if d >= 0 {
			u.retryDelay = d
		}
	}
}

// NewCatalogUseCase caches successful provider results for ttl (DefaultCatalogCacheTTL when <= 0).
func NewCatalogUseCase(provider interfaces.ICatalogProvider, ttl time.Duration, opts ...CatalogUseCaseOption) *CatalogUseCase {
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	u := &CatalogUseCase{
		provider:   provider,
		cache:      expirable.NewLRU[string, []entities.CatalogProduct](1, nil, ttl),
		tryTimeout: DefaultCatalogTryTimeout,
		retryDelay: DefaultCatalogRetryDelay,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// LoadCatalog never fails because of the provider: after the retry is spent it answers
// with FallbackCatalog. Only a done ctx is reported as an error.
func (u *CatalogUseCase) LoadCatalog(ctx context.Context) ([]entities.CatalogProduct, error) {
	if cached, ok := u.cache.Get(catalogCacheKey); ok {
		catalogCacheHitsTotal.Inc()
		return cloneProducts(cached), nil
	}
	catalogCacheMissesTotal.Inc()

	products, err := u.fetchWithRetry(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[catalog][usecase] provider unavailable, serving fallback err=%v", err)
		catalogFallbackTotal.Inc()
		return cloneProducts(FallbackCatalog), nil
	}

	if len(products) > catalogMaxItems {
		products = products[:catalogMaxItems]
	}
	out := make([]entities.CatalogProduct, 0, len(products))
	for _, p := range products {
		if p.SuggestedPrice <= 0 {
			p.SuggestedPrice = DefaultSuggestedPrice
		}
		out = append(out, p)
	}
	u.cache.Add(catalogCacheKey, out)
	return cloneProducts(out), nil
}

func (u *CatalogUseCase) fetchWithRetry(ctx context.Context) ([]entities.CatalogProduct, error) {
	var lastErr error
	for attempt := 0; attempt <= catalogRetries; attempt++ {
		tryCtx, cancel := context.WithTimeout(ctx, u.tryTimeout)
		products, err := u.provider.FetchProducts(tryCtx)
		cancel()
		if err == nil {
			return products, nil
		}
		lastErr = err
		log.Printf("[catalog][usecase] fetch failed attempt=%d err=%v", attempt+1, err)
		if attempt == catalogRetries {
			break
		}

		timer := time.NewTimer(u.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func cloneProducts(in []entities.CatalogProduct) []entities.CatalogProduct {
	out := make([]entities.CatalogProduct, len(in))
	copy(out, in)
	return out
}
