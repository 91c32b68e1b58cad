// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
// The cache evicts the least recently used entry once it grows past its
// capacity. Entries stored with Put never expire until Expire assigns them a
// TTL, mirroring the SET / EXPIRE split of key-value stores such as Redis; a
// later Put clears the TTL again. Expired entries are dropped lazily when
// touched and in bulk by PurgeExpired, so callers that need memory reclaimed
// promptly run PurgeExpired on a ticker.
//
// # Usage
//
//	c := cache.NewLRUCache[string, []byte](10_000)
//
//	c.Put("session:abc", payload)
//	c.Expire("session:abc", 30*time.Minute)
//
//	if v, ok := c.Get("session:abc"); ok {
//		_ = v
//	}
//
//	c.Remove("session:abc")
//
// An eviction callback observes entries dropped by capacity, expiry or Clear:
//
//	c.SetEvictCallback(func(key string, _ []byte) {
//		log.Printf("evicted %s", key)
//	})
//
// # Thread Safety
//
// All operations take a single mutex and are safe for concurrent use.
//
// # Performance Characteristics
//
//   - Get, Put, Expire, Remove: O(1)
//   - PurgeExpired: O(n)
package cache
