package restapi

import (
	"sync/atomic"
	"time"

	"github.com/bluele/gcache"
	"transitgeo.cartes.app/internal/app"
)

const (
	defaultCacheSize = 128
	defaultCacheTTL  = 30 * 24 * time.Hour
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	results     gcache.Cache
	// generation changes on every dataset reload so that results built
	// from the previous dataset are never stored under a live key.
	generation atomic.Uint64
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
// and result cache. Cached results are dropped whenever the GTFS manager
// reloads its dataset.
func NewRestAPI(app *app.Application) *RestAPI {
	api := &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		results:     newResultCache(app.Config.CacheSize, app.Config.CacheTTL),
	}
	if app.GtfsManager != nil {
		app.GtfsManager.OnReload(api.purgeResults)
	}
	return api
}

func newResultCache(size int, ttl time.Duration) gcache.Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return gcache.New(size).LRU().Expiration(ttl).Build()
}

// Shutdown stops the background work started by NewRestAPI. It is safe to
// call more than once.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}

func (api *RestAPI) purgeResults() {
	api.generation.Add(1)
	api.results.Purge()
}
