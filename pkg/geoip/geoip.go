// Package geoip resolves a client IP to a coarse location hint via an
// external HTTP lookup service. Lookups are cached in Redis and guarded by
// a circuit breaker; every failure mode degrades to an empty location
// because the hint is observability metadata, never an auth input.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jobtrackr/backend/pkg/circuit"
	"github.com/jobtrackr/backend/pkg/redis"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "jobtrackr:geo:"

// Location is the country/city hint attached to session records.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// Config holds lookup service settings
type Config struct {
	Endpoint string // base URL, e.g. http://ip-api.com/json
	Timeout  time.Duration
	CacheTTL time.Duration
}

type Client struct {
	endpoint string
	cacheTTL time.Duration
	http     *http.Client
	cache    *redis.Client
	breaker  *circuit.Breaker
	logger   *zap.Logger
}

// NewClient creates a geo lookup client
func NewClient(cfg Config, cache *redis.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	return &Client{
		endpoint: cfg.Endpoint,
		cacheTTL: cfg.CacheTTL,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		breaker:  circuit.NewBreaker("geoip", circuit.DefaultConfig(), logger),
		logger:   logger,
	}
}

// lookupResponse is the portion of the lookup service response we care about
type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup resolves ip to a location hint. Private, loopback and unparsable
// addresses short-circuit to an empty location without calling the service.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	if !routable(ip) {
		return Location{}
	}

	key := cacheKeyPrefix + ip
	var cached Location
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached
	}

	var loc Location
	err := c.breaker.Execute(func() error {
		resolved, err := c.fetch(ctx, ip)
		if err != nil {
			return err
		}
		loc = resolved
		return nil
	})
	if err != nil {
		c.logger.Debug("Geo lookup failed",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return Location{}
	}

	if err := c.cache.SetJSON(ctx, key, loc, c.cacheTTL); err != nil {
		c.logger.Debug("Failed to cache geo lookup", zap.String("ip", ip), zap.Error(err))
	}

	return loc
}

func (c *Client) fetch(ctx context.Context, ip string) (Location, error) {
	url := fmt.Sprintf("%s/%s", c.endpoint, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("geoip: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geoip: calling lookup service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geoip: lookup service returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("geoip: decoding lookup response: %w", err)
	}

	if body.Status != "" && body.Status != "success" {
		return Location{}, fmt.Errorf("geoip: lookup failed for %s", ip)
	}

	return Location{Country: body.Country, City: body.City}, nil
}

// routable reports whether ip is a public address worth looking up
func routable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified()
}
