// Package cache stores upstream HTTP responses together with their
// validators (ETag, Last-Modified) in Redis, so the gateway can answer
// conditional requests with 304 Not Modified and revalidate stale
// entries upstream instead of re-downloading them.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Path:  "/articles/42",
//		Query: url.Values{"lang": []string{"en"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the upstream origin
//	}
//
// # Storing Responses
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Revalidation
//
//	// When an entry carries validators, ask the origin whether the
//	// resource changed instead of transferring it again.
//	if cache.ShouldRevalidate(entry) {
//		cache.AddValidators(req, entry)
//		// a 304 answer means the stored body is still current
//	}
//
// # Metrics
//
// The manager exports Prometheus metrics:
//
//   - condgate_cache_hits_total{layer="redis"} - Cache hits
//   - condgate_cache_misses_total - Cache misses
//   - condgate_cache_size_bytes{layer="redis"} - Stored bytes
//   - condgate_revalidations_sent_total - Conditional requests sent upstream
//   - condgate_cache_errors_total{operation} - Cache operation errors
package cache
