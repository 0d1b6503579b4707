package mempool

import lru "github.com/hashicorp/golang-lru"

// recentRejections is a bounded cache of hashes rejected by Accept. It never
// influences acceptance decisions; it only lets the debug logger tell a
// first-time rejection from a redelivery of the same stale transaction,
// which gossip does constantly.
type recentRejections struct {
	cache *lru.Cache
}

func newRecentRejections(size int) *recentRejections {
	if size <= 0 {
		return &recentRejections{}
	}
	c, err := lru.New(size)
	if err != nil {
		return &recentRejections{}
	}
	return &recentRejections{cache: c}
}

// seen reports whether hash was already recorded, and records it either
// way.
func (r *recentRejections) seen(hash Hash) bool {
	if r.cache == nil {
		return false
	}
	_, ok := r.cache.Get(hash)
	r.cache.Add(hash, struct{}{})
	return ok
}
