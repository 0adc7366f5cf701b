// Package cache provides the bounded LRU memo used by path flattening.
//
// Flattening a path is pure: the same path flattened at the same scale always
// yields the same polylines. Recording re-flattens a path every time it is
// drawn or used as a clip, so results are memoized here keyed by path
// identity and scale bucket.
//
//	c := cache.New[key, *Flattened](512)
//	f := c.GetOrCreate(k, func() *Flattened { return flatten(p, scale) })
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
