package trends

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
)

const (
	// DefaultTTL bounds how long a successful snapshot is served before
	// a refresh is attempted.
	DefaultTTL = 30 * time.Minute

	// MergedCap bounds the cross-source merged list.
	MergedCap = 15

	refreshTimeout = 20 * time.Second
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "viralscripts_trend_cache_hits_total",
		Help: "Trend fetches served from the in-memory snapshot cache.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "viralscripts_trend_cache_misses_total",
		Help: "Trend fetches that required a refresh.",
	})
	refreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "viralscripts_trend_refresh_duration_seconds",
		Help:    "Duration of trend source refreshes.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, refreshDuration)
}

// Service fetches, merges and caches trend data. The cache is shared
// across concurrent requests; expired-cache refreshes collapse into a
// single in-flight call whose result is returned to every waiter.
type Service struct {
	cat     *catalog.Catalog
	sources []Source
	store   *SnapshotStore
	ttl     time.Duration

	group singleflight.Group

	mu   sync.RWMutex
	snap *model.TrendsSnapshot
}

// NewService creates a trend service over the given sources, in merge
// priority order. store may be nil to disable Redis mirroring.
func NewService(cat *catalog.Catalog, sources []Source, store *SnapshotStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = &SnapshotStore{}
	}
	return &Service{cat: cat, sources: sources, store: store, ttl: ttl}
}

// TTL returns the configured cache window.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Fetch returns the current trend snapshot. Within the TTL window the
// cached snapshot is returned as-is unless force is set. On refresh
// failure the previous snapshot is returned if one exists; with no
// snapshot at all the error is apperr.ErrTrendsUnavailable. Transport
// errors never reach the caller.
func (s *Service) Fetch(ctx context.Context, force bool) (*model.TrendsSnapshot, error) {
	if !force {
		if snap := s.cachedFresh(); snap != nil {
			cacheHits.Inc()
			return snap, nil
		}
		if snap := s.adoptMirror(ctx); snap != nil {
			cacheHits.Inc()
			return snap, nil
		}
	}
	cacheMisses.Inc()

	// All concurrent callers that miss the cache share one refresh.
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		if prev := s.cachedAny(); prev != nil {
			return prev, nil
		}
		return nil, apperr.ErrTrendsUnavailable
	}
	return v.(*model.TrendsSnapshot), nil
}

// cachedFresh returns the snapshot while it is within the TTL window.
func (s *Service) cachedFresh() *model.TrendsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil && time.Since(s.snap.FetchedAt) < s.ttl {
		return s.snap
	}
	return nil
}

// cachedAny returns the last successful snapshot regardless of age.
func (s *Service) cachedAny() *model.TrendsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// adoptMirror pulls a still-fresh snapshot from Redis into memory. Only
// useful right after a restart, when the in-memory cache is empty.
func (s *Service) adoptMirror(ctx context.Context) *model.TrendsSnapshot {
	if s.cachedAny() != nil {
		return nil
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("trends: mirror load failed: %v", err)
		return nil
	}
	if snap == nil || time.Since(snap.FetchedAt) >= s.ttl {
		return nil
	}
	s.mu.Lock()
	if s.snap == nil {
		s.snap = snap
	}
	snap = s.snap
	s.mu.Unlock()
	return snap
}

// refresh fetches every source in parallel, falling back to the catalog
// seed list for any source that fails or comes back empty.
func (s *Service) refresh(ctx context.Context) (*model.TrendsSnapshot, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	lists := make([][]model.TrendItem, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			items, err := src.Fetch(ctx)
			if err != nil {
				log.Printf("trends: %s fetch failed, falling back to seeds: %v", src.Name(), err)
				items = s.seedItems(src.Name())
			}
			if len(items) > MaxPerSource {
				items = items[:MaxPerSource]
			}
			lists[i] = items
		}(i, src)
	}
	wg.Wait()

	// Start from empty lists so every field serializes as an array.
	snap := model.EmptyTrendsSnapshot(time.Now().UTC())
	var all []model.TrendItem
	for i, src := range s.sources {
		if len(lists[i]) == 0 {
			continue
		}
		switch src.Name() {
		case model.SourceTikTok:
			snap.TikTok = lists[i]
		case model.SourceX:
			snap.X = lists[i]
		case model.SourceGoogle:
			snap.Google = lists[i]
		}
		all = append(all, lists[i]...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("all trend sources empty")
	}
	snap.Merged = Merge(all)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	if err := s.store.Save(ctx, snap, s.ttl); err != nil {
		log.Printf("trends: mirror save failed: %v", err)
	}

	refreshDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}

// seedItems builds the static fallback list for a source label.
func (s *Service) seedItems(source string) []model.TrendItem {
	seeds := s.cat.TrendSeeds(source)
	items := make([]model.TrendItem, 0, len(seeds))
	for i, seed := range seeds {
		category := seed.Category
		if category == "" {
			category = "general"
		}
		items = append(items, model.TrendItem{
			Rank:     i + 1,
			Term:     seed.Term,
			Source:   source,
			Category: category,
			Volume:   seed.Volume,
		})
	}
	return items
}

// Merge combines per-source lists into one ranked list: volume descending
// (missing volume ranks last), ties broken by source priority, then by
// each item's original rank. Terms are deduplicated on their normalized
// form and the result is capped at MergedCap.
func Merge(items []model.TrendItem) []model.TrendItem {
	sorted := make([]model.TrendItem, len(items))
	copy(sorted, items)

	volume := func(it model.TrendItem) int {
		if it.Volume == nil {
			return -1
		}
		return *it.Volume
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := volume(sorted[i]), volume(sorted[j])
		if vi != vj {
			return vi > vj
		}
		pi, pj := model.SourcePriority(sorted[i].Source), model.SourcePriority(sorted[j].Source)
		if pi != pj {
			return pi < pj
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	seen := make(map[string]struct{}, len(sorted))
	merged := make([]model.TrendItem, 0, MergedCap)
	for _, it := range sorted {
		key := strings.ToLower(strings.TrimPrefix(it.Term, "#"))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		it.Rank = len(merged) + 1
		merged = append(merged, it)
		if len(merged) == MergedCap {
			break
		}
	}
	return merged
}
