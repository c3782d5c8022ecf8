// Package httputil provides HTTP utilities for fetching remote diagrams.
//
// # Overview
//
// This package provides infrastructure used when diagram sources are
// loaded from http(s) URLs:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/flowdraw/)
// with configurable TTL. This speeds up repeated renders of the same
// remote diagram and keeps re-renders working offline.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var text string
//	ok, _ := cache.Get("url:"+url, &text)  // Check cache
//	if !ok {
//	    text = fetchFromURL(url)
//	    cache.Set("url:"+url, text)        // Store for later
//	}
//
// Cache keys should be namespaced by source kind to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap transient errors in [RetryableError] so Retry knows to try again:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/flowdraw/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `flowdraw cache clear` or by deleting
// the cache directory.
package httputil
