package trends

import (
	"context"
	"log"
	"time"
)

// Refresher keeps the trend cache warm by re-fetching shortly before the
// TTL window closes, so request paths rarely pay scrape latency.
type Refresher struct {
	svc      *Service
	interval time.Duration
}

// NewRefresher creates a refresher ticking at 90% of the service TTL.
func NewRefresher(svc *Service) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: svc.TTL() * 9 / 10,
	}
}

// Start warms the cache once, then refreshes on the ticker until the
// context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	log.Printf("trend-refresher: starting (interval=%s)", r.interval)

	if _, err := r.svc.Fetch(ctx, true); err != nil {
		log.Printf("trend-refresher: initial warm-up failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.svc.Fetch(ctx, true); err != nil {
				log.Printf("trend-refresher: refresh failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("trend-refresher: stopping (context cancelled)")
			return
		}
	}
}
