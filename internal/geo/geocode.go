// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/trailcast/internal/cache"
	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/metrics"
)

// ErrNoResults is returned when the geocoder finds nothing for a query.
// Callers surface it and leave existing map state untouched.
var ErrNoResults = errors.New("geocode: no results for query")

// Place is a resolved location.
type Place struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Formatted string  `json:"formatted"`
}

// geocodeResponse mirrors the OpenCage response shape, reduced to the fields
// Trailcast reads.
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
		Formatted string `json:"formatted"`
	} `json:"results"`
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	TotalResults int `json:"total_results"`
}

// GeocodeClient resolves place names to coordinates. Upstream calls go
// through a circuit breaker and an outbound rate limiter; successful
// results are cached.
type GeocodeClient struct {
	cfg     config.GeocoderConfig
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[*Place]
	limiter *rate.Limiter
	cache   *cache.Cache
}

// NewGeocodeClient creates a geocoding client. The cache may be nil to
// disable caching.
//
// Circuit breaker configuration matches the rest of the project:
// opens after a 60% failure rate over at least 10 requests, allows 3
// trial requests half-open, recovers after 2 minutes.
func NewGeocodeClient(cfg config.GeocoderConfig, c *cache.Cache) *GeocodeClient {
	const cbName = "geocoder"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*Place](gobreaker.Settings{
		Name:          cbName,
		MaxRequests:   3,
		Interval:      time.Minute,
		Timeout:       2 * time.Minute,
		ReadyToTrip:   breakerReadyToTrip(cbName),
		OnStateChange: breakerStateChange,
		IsSuccessful: func(err error) bool {
			// An empty result set is an answer, not an upstream failure.
			return err == nil || errors.Is(err, ErrNoResults)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &GeocodeClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		limiter: limiter,
		cache:   c,
	}
}

// Geocode resolves a free-form query to its best-match place.
// Returns ErrNoResults when the upstream finds nothing.
func (g *GeocodeClient) Geocode(ctx context.Context, query string) (*Place, error) {
	if query == "" {
		return nil, fmt.Errorf("geocode: empty query")
	}

	cacheKey := cache.GenerateKey("geocode", query)
	if g.cache != nil {
		if cached, ok := g.cache.Get(cacheKey); ok {
			metrics.GeocodeCacheHits.Inc()
			if place, ok := cached.(*Place); ok {
				return place, nil
			}
		}
		metrics.GeocodeCacheMisses.Inc()
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("geocode: rate limiter: %w", err)
		}
	}

	start := time.Now()
	place, err := g.cb.Execute(func() (*Place, error) {
		return g.query(ctx, query)
	})
	recordBreakerResult("geocoder", err)

	switch {
	case err == nil:
		metrics.RecordGeocodeRequest("success", time.Since(start))
	case errors.Is(err, ErrNoResults):
		metrics.RecordGeocodeRequest("no_results", time.Since(start))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordGeocodeRequest("rejected", time.Since(start))
	default:
		metrics.RecordGeocodeRequest("error", time.Since(start))
	}

	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.SetWithTTL(cacheKey, place, g.cfg.CacheTTL)
	}
	return place, nil
}

// query performs one upstream request.
func (g *GeocodeClient) query(ctx context.Context, query string) (*Place, error) {
	endpoint := fmt.Sprintf("%s/geocode/v1/json?q=%s&key=%s&limit=1",
		g.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(g.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: query upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: upstream returned status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}

	if len(result.Results) == 0 {
		logging.Debug().Str("query", query).Msg("geocoder found no results")
		return nil, ErrNoResults
	}

	best := result.Results[0]
	return &Place{
		Latitude:  best.Geometry.Lat,
		Longitude: best.Geometry.Lng,
		Formatted: best.Formatted,
	}, nil
}
