// Package scheduler keeps the result cache warm for a configured set
// of service keys so interactive requests rarely pay the upstream
// round trip.
package scheduler

import (
	"context"
	"time"

	"github.com/data-tales/datasources/internal/cache"
	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/pipeline"
)

// Prewarmer periodically fetches a fixed list of service keys through
// the pipeline (cache-respecting, so a still-warm bucket is free) and
// sweeps expired cache buckets.
type Prewarmer struct {
	pipeline      *pipeline.Pipeline
	cache         *cache.ResultCache
	keys          []string
	interval      time.Duration
	log           logger.Logger
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewPrewarmer(
	p *pipeline.Pipeline,
	resultCache *cache.ResultCache,
	keys []string,
	interval time.Duration,
	log logger.Logger,
	manualTrigger chan struct{},
) *Prewarmer {
	return &Prewarmer{
		pipeline:      p,
		cache:         resultCache,
		keys:          keys,
		interval:      interval,
		log:           log,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic warm cycle. The first cycle runs in the
// background: remote endpoints failing at startup must not block boot.
func (pw *Prewarmer) Start(ctx context.Context) error {
	ticker := time.NewTicker(pw.interval)
	go func() {
		defer ticker.Stop()
		pw.warm(ctx)
		for {
			select {
			case <-ticker.C:
				pw.cache.Sweep()
				pw.warm(ctx)
			case <-pw.manualTrigger:
				pw.log.Info("manual prewarm triggered")
				pw.warm(ctx)
			case <-pw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the prewarmer.
func (pw *Prewarmer) Stop() {
	close(pw.stopCh)
}

// warm fetches every configured key once; failures are logged and the
// cycle continues, they are expected from flaky remote servers.
func (pw *Prewarmer) warm(ctx context.Context) {
	for _, key := range pw.keys {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := pw.pipeline.Fetch(ctx, key, false)
		if err != nil {
			pw.log.Warn("prewarm fetch failed",
				logger.String("service", key),
				logger.Error(err))
			continue
		}
		pw.log.Debug("prewarmed service",
			logger.String("service", key),
			logger.Int("items", result.Counts.Items))
	}
}
