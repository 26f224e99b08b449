package restapi

import (
	"encoding/json"
	"fmt"
	"time"

	"transitgeo.cartes.app/internal/metrics"
)

// cachedJSON returns the JSON encoding of build(), reusing a previous
// encoding for the same key while the dataset is unchanged.
func (api *RestAPI) cachedJSON(kind, key string, build func() (any, error)) ([]byte, error) {
	generation := api.generation.Load()
	cacheKey := fmt.Sprintf("%d:%s:%s", generation, kind, key)

	if value, err := api.results.Get(cacheKey); err == nil {
		metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
		return value.([]byte), nil
	}
	metrics.ResultCacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	result, err := build()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	metrics.BuildDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if api.generation.Load() == generation {
		_ = api.results.Set(cacheKey, body)
	}
	return body, nil
}
