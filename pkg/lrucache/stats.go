package lrucache

import "sync/atomic"

// Stats holds cache counters. All methods are safe for concurrent use.
type Stats struct {
	hits          atomic.Int64
	misses        atomic.Int64
	evictions     atomic.Int64
	invalidations atomic.Int64
	keyCount      atomic.Int64
}

// Hits returns the number of successful retrievals
func (s *Stats) Hits() int64 { return s.hits.Load() }

// Misses returns the number of retrievals of absent keys
func (s *Stats) Misses() int64 { return s.misses.Load() }

// Evictions returns the number of entries removed by the LRU policy
func (s *Stats) Evictions() int64 { return s.evictions.Load() }

// Invalidations returns the number of entries removed by Evict or Clear
func (s *Stats) Invalidations() int64 { return s.invalidations.Load() }

// KeyCount returns the number of live entries at the last update
func (s *Stats) KeyCount() int64 { return s.keyCount.Load() }

// HitRate returns hits as a percentage of all retrievals
func (s *Stats) HitRate() float64 {
	hits := s.hits.Load()
	total := hits + s.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func (s *Stats) incHits()                { s.hits.Add(1) }
func (s *Stats) incMisses()              { s.misses.Add(1) }
func (s *Stats) addEvictions(n int)      { s.evictions.Add(int64(n)) }
func (s *Stats) addInvalidations(n int)  { s.invalidations.Add(int64(n)) }
func (s *Stats) setKeyCount(count int64) { s.keyCount.Store(count) }
