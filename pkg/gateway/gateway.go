// Package gateway implements a conditional-request-aware caching
// reverse proxy: it serves cached upstream responses, answers client
// preconditions with 304 Not Modified, and revalidates stale entries
// against the origin using their stored validators.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/condgate/condgate/pkg/cache"
	"github.com/condgate/condgate/pkg/httpwire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for gateway operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "condgate_requests_total",
		Help: "Total gateway requests by outcome",
	}, []string{"outcome"}) // "hit", "miss", "revalidated", "bypass", "passthrough", "error"

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "condgate_request_duration_seconds",
		Help:    "Gateway request duration in seconds by outcome",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"outcome"})

	notModifiedServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condgate_not_modified_served_total",
		Help: "Total 304 Not Modified responses served to clients",
	})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "condgate_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// hopByHopHeaders are connection-level headers that must not be
// forwarded by a proxy (RFC 9110 §7.6.1).
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Config holds the gateway configuration.
type Config struct {
	// Redis client backing the response cache
	Redis *redis.Client

	// Upstream is the origin base URL (e.g. "https://origin.example.com")
	Upstream string

	// BypassCookies lists cookie names that mark a request as
	// personalized. Requests carrying any of them skip the shared cache.
	BypassCookies []string

	// UpstreamTimeout bounds a single origin round trip.
	UpstreamTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redis *redis.Client, upstream string) Config {
	return Config{
		Redis:           redis,
		Upstream:        upstream,
		BypassCookies:   []string{"session"},
		UpstreamTimeout: 30 * time.Second,
	}
}

// Gateway is a caching reverse proxy handler. It implements
// http.Handler and is safe for concurrent use.
type Gateway struct {
	httpClient *http.Client
	upstream   *url.URL
	cache      *cache.Manager
	config     Config
	bypass     map[string]bool
	logger     zerolog.Logger
}

// New creates a new gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	upstream, err := url.Parse(cfg.Upstream)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q", cfg.Upstream)
	}

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 30 * time.Second
	}

	bypass := make(map[string]bool, len(cfg.BypassCookies))
	for _, name := range cfg.BypassCookies {
		bypass[name] = true
	}

	logger := log.With().Str("component", "gateway").Logger()

	return &Gateway{
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		upstream: upstream,
		cache:    cache.NewManager(cfg.Redis),
		config:   cfg,
		bypass:   bypass,
		logger:   logger,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (g *Gateway) SetHTTPClient(client *http.Client) {
	g.httpClient = client
}

// Cache returns the cache manager (for testing).
func (g *Gateway) Cache() *cache.Manager {
	return g.cache
}

// ServeHTTP handles one client request: cache lookup, precondition
// evaluation, upstream fetch with revalidation, and cache update.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "error"
	defer func() {
		requestsTotal.WithLabelValues(outcome).Inc()
		requestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	// Only safe methods are cacheable; everything else passes through.
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		outcome = "passthrough"
		g.passthrough(w, r)
		return
	}

	if g.shouldBypass(r) {
		outcome = "bypass"
		g.logger.Debug().
			Str("path", r.URL.Path).
			Msg("Cache bypassed for personalized request")
		g.passthrough(w, r)
		return
	}

	key := cache.Key{Path: r.URL.Path, Query: r.URL.Query()}

	entry, err := g.cache.Get(r.Context(), key)
	switch {
	case err == nil:
		outcome = "hit"
		g.logger.Debug().
			Str("path", r.URL.Path).
			Str("etag", entry.ETag).
			Msg("Serving fresh cache entry")
		g.serveEntry(w, r, entry)

	case errors.Is(err, cache.ErrCacheStale):
		outcome = "revalidated"
		g.fetchAndServe(w, r, key, entry)

	case errors.Is(err, cache.ErrCacheMiss):
		outcome = "miss"
		g.fetchAndServe(w, r, key, nil)

	default:
		// Cache backend trouble: fall back to a direct fetch.
		outcome = "miss"
		g.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Cache get error")
		g.fetchAndServe(w, r, key, nil)
	}
}

// shouldBypass reports whether the request carries a configured
// personalization cookie.
func (g *Gateway) shouldBypass(r *http.Request) bool {
	if len(g.bypass) == 0 {
		return false
	}
	cookies := httpwire.RequestCookies(r)
	for _, name := range cookies.Keys() {
		if g.bypass[name] {
			return true
		}
	}
	return false
}

// serveEntry writes a cached entry, answering 304 when the request
// preconditions show the client's copy is current.
func (g *Gateway) serveEntry(w http.ResponseWriter, r *http.Request, entry *cache.Entry) {
	if !httpwire.RequestModified(r, entry.ETag, entry.LastModified) {
		notModifiedServed.Inc()
		g.writeNotModified(w, entry)
		return
	}

	copyHeaders(w.Header(), entry.Headers)
	// Stored headers may still carry connection-level fields from the
	// origin response; they must not be replayed.
	for _, h := range hopByHopHeaders {
		w.Header().Del(h)
	}
	setValidatorHeaders(w.Header(), entry)
	w.WriteHeader(entry.StatusCode)
	if r.Method != http.MethodHead {
		w.Write(entry.Body)
	}
}

// writeNotModified sends a 304, keeping only the metadata a sender
// should generate on one (RFC 7232 §4.1).
func (g *Gateway) writeNotModified(w http.ResponseWriter, entry *cache.Entry) {
	h := w.Header()
	setValidatorHeaders(h, entry)
	if h.Get("ETag") != "" {
		h.Del("Last-Modified")
	}
	w.WriteHeader(http.StatusNotModified)
}

// fetchAndServe fetches from the origin, revalidating a stale entry
// when one is available, updates the cache, and serves the result.
func (g *Gateway) fetchAndServe(w http.ResponseWriter, r *http.Request, key cache.Key, stale *cache.Entry) {
	ctx := r.Context()

	resp, err := g.fetch(r, stale)
	if err != nil {
		g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream fetch failed")

		// A stale entry beats an error page.
		if stale != nil {
			g.logger.Info().Str("path", r.URL.Path).Msg("Serving stale entry after upstream failure")
			g.serveEntry(w, r, stale)
			return
		}
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	// Upstream confirmed the stale body is still current.
	if resp.StatusCode == http.StatusNotModified && stale != nil {
		cache.RevalidationsNotModified.Inc()
		g.logger.Debug().Str("path", r.URL.Path).Msg("304 from origin - reusing cached body")

		newExpires := freshExpires(resp.Header)
		stale.Expires = newExpires
		if err := g.cache.UpdateTTL(ctx, key, newExpires); err != nil {
			g.logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}

		g.serveEntry(w, r, stale)
		return
	}

	if resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			g.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else {
			if err := g.cache.Set(ctx, key, entry); err != nil {
				g.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				g.logger.Debug().
					Str("path", r.URL.Path).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
			g.serveEntry(w, r, entry)
			return
		}
	}

	// Non-cacheable answer: stream it through unchanged.
	streamResponse(w, r, resp)
}

// fetch performs the origin round trip with retry and backoff,
// attaching the stale entry's validators when revalidating.
func (g *Gateway) fetch(r *http.Request, stale *cache.Entry) (*http.Response, error) {
	ctx := r.Context()

	var resp *http.Response
	err := retryWithBackoff(ctx, func() error {
		req, err := g.upstreamRequest(ctx, r, nil)
		if err != nil {
			return err
		}

		// The client's preconditions were already answered against the
		// cache; the origin only sees the gateway's own validators.
		req.Header.Del("If-None-Match")
		req.Header.Del("If-Modified-Since")
		req.Header.Del("If-Match")
		req.Header.Del("If-Range")

		if cache.ShouldRevalidate(stale) {
			cache.AddValidators(req, stale)
			cache.RevalidationsSent.Inc()
			g.logger.Debug().
				Str("path", req.URL.Path).
				Str("etag", staleETag(stale)).
				Msg("Revalidating stale entry upstream")
		}

		resp, err = g.httpClient.Do(req)
		if err != nil {
			upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &UpstreamError{
				ErrorClass: ErrorClassNetwork,
				Message:    "round trip failed",
				Err:        err,
			}
		}

		if resp.StatusCode >= 500 {
			upstreamErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
			resp.Body.Close()
			return &UpstreamError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassServer,
				Message:    resp.Status,
			}
		}

		return nil
	}, classifyError)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// passthrough forwards a request to the origin without touching the
// cache and streams the answer back.
func (g *Gateway) passthrough(w http.ResponseWriter, r *http.Request) {
	req, err := g.upstreamRequest(r.Context(), r, r.Body)
	if err != nil {
		http.Error(w, "bad gateway request", http.StatusBadGateway)
		return
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Passthrough fetch failed")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	streamResponse(w, r, resp)
}

// upstreamRequest builds the origin request for a client request,
// dropping hop-by-hop headers. Precondition headers are forwarded:
// passthrough and bypass requests keep end-to-end conditional
// semantics with the origin, while the cached fetch path strips them
// (see fetch) because the gateway answers them itself.
func (g *Gateway) upstreamRequest(ctx context.Context, r *http.Request, body io.Reader) (*http.Request, error) {
	u := *g.upstream
	u.Path = singleJoin(g.upstream.Path, r.URL.Path)
	u.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}

	copyHeaders(req.Header, r.Header)
	for _, h := range hopByHopHeaders {
		req.Header.Del(h)
	}
	req.Host = g.upstream.Host

	return req, nil
}

// classifyError maps a fetch error to its class for retry decisions.
func classifyError(err error) ErrorClass {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.ErrorClass
	}
	return ErrorClassNetwork
}

// streamResponse copies an origin response to the client verbatim.
func streamResponse(w http.ResponseWriter, r *http.Request, resp *http.Response) {
	copyHeaders(w.Header(), resp.Header)
	for _, h := range hopByHopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method != http.MethodHead {
		io.Copy(w, resp.Body)
	}
}

// copyHeaders adds all values of src to dst.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// setValidatorHeaders ensures the entry's validators are present on an
// outgoing response.
func setValidatorHeaders(h http.Header, entry *cache.Entry) {
	if entry.ETag != "" {
		h.Set("ETag", entry.ETag)
	}
	if !entry.LastModified.IsZero() {
		h.Set("Last-Modified", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}

// freshExpires derives the new expiry from a 304's headers, falling
// back to the default TTL.
func freshExpires(h http.Header) time.Time {
	if expires, ok := httpwire.ParseDate(h.Get("Expires")); ok && expires.After(time.Now()) {
		return expires
	}
	return time.Now().Add(cache.DefaultTTL)
}

func staleETag(entry *cache.Entry) string {
	if entry == nil {
		return ""
	}
	return entry.ETag
}

// singleJoin joins two URL path segments with exactly one slash.
func singleJoin(a, b string) string {
	a = strings.TrimSuffix(a, "/")
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	return a + b
}
