package restapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"transitgeo.cartes.app/internal/metrics"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// instrument counts responses of a route by status code.
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	handle := func(path string, h http.Handler) {
		router.Handler(http.MethodGet, path, instrument(path, h))
	}

	handle("/agencies", validateAPIKey(api, api.agenciesHandler))
	handle("/agency/geojsons/:agency_id", validateAPIKey(api, api.agencyGeojsonsHandler))
	handle("/agency/segments/:agency_id", validateAPIKey(api, api.agencySegmentsHandler))
	handle("/route/:route_id/shape", validateAPIKey(api, api.routeShapeHandler))
	handle("/update/:secret", http.HandlerFunc(api.updateHandler))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Handler returns the router wrapped in the middleware stack, outermost first:
// panic reporting, request logging, security headers, CORS, rate limiting
// and compression. extra registers additional routes on the same router.
func (api *RestAPI) Handler(extra ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, register := range extra {
		register(router)
	}

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = corsHandler()(handler)
	handler = securityHeaders(handler)
	logger := api.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler = NewRequestLoggingMiddleware(logger)(handler)
	return sentryMiddleware(handler)
}
