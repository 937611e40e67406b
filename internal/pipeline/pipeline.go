// Package pipeline is the single entry point consumers use to obtain
// the normalized catalog of an OGC service: registry lookup, cache
// lookup, version negotiation, normalization and cache fill.
package pipeline

import (
	"context"
	"time"

	"github.com/data-tales/datasources/internal/cache"
	"github.com/data-tales/datasources/internal/domain"
	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/ogc"
	"github.com/data-tales/datasources/internal/registry"
	redisstore "github.com/data-tales/datasources/internal/store/redis"
)

type Pipeline struct {
	reg   *registry.Registry
	neg   *ogc.Negotiator
	cache *cache.ResultCache
	store *redisstore.Store // nil when the shared tier is disabled
	log   logger.Logger
	now   func() time.Time
}

func New(reg *registry.Registry, neg *ogc.Negotiator, resultCache *cache.ResultCache, store *redisstore.Store, log logger.Logger) *Pipeline {
	return &Pipeline{
		reg:   reg,
		neg:   neg,
		cache: resultCache,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// WithClock replaces the clock, for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Fetch resolves serviceKey and returns its normalized catalog.
//
// With bypass=false the current TTL bucket is consulted first (memory,
// then the shared tier when configured) and a fresh result is stored on
// the way out. With bypass=true the pipeline always runs and nothing is
// stored. Failures are never cached, so a transient outage does not
// poison the rest of the TTL window. Concurrent misses on the same key
// may fetch twice; the fetch is idempotent, so that is tolerated rather
// than serialized.
func (p *Pipeline) Fetch(ctx context.Context, serviceKey string, bypass bool) (*domain.ServiceResult, error) {
	svc, ok := p.reg.Get(serviceKey)
	if !ok {
		return nil, &ogc.Error{Kind: ogc.KindUnknownService, Msg: "unknown service key " + serviceKey}
	}

	if !bypass {
		if result, hit := p.cache.Get(serviceKey); hit {
			p.log.Debug("cache hit", logger.String("service", serviceKey))
			return result, nil
		}
		if result := p.sharedLookup(ctx, serviceKey); result != nil {
			p.cache.Put(serviceKey, result)
			return result, nil
		}
	}

	caps, err := p.neg.Fetch(ctx, svc)
	if err != nil {
		return nil, err
	}

	result := assemble(svc, caps, p.now().Unix())
	p.log.Info("capabilities fetched",
		logger.String("service", serviceKey),
		logger.String("version", result.Service.Version),
		logger.Int("items", result.Counts.Items),
		logger.Duration("duration", caps.FetchDuration))

	if !bypass {
		p.cache.Put(serviceKey, result)
		p.sharedStore(ctx, serviceKey, result)
	}
	return result, nil
}

// sharedLookup consults the Redis tier; errors only degrade to a miss.
func (p *Pipeline) sharedLookup(ctx context.Context, serviceKey string) *domain.ServiceResult {
	if p.store == nil {
		return nil
	}
	result, err := p.store.GetResult(ctx, serviceKey, p.cache.Bucket())
	if err != nil {
		p.log.Warn("shared cache lookup failed",
			logger.String("service", serviceKey),
			logger.Error(err))
		return nil
	}
	return result
}

func (p *Pipeline) sharedStore(ctx context.Context, serviceKey string, result *domain.ServiceResult) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveResult(ctx, serviceKey, p.cache.Bucket(), result, p.cache.TTL()); err != nil {
		p.log.Warn("shared cache store failed",
			logger.String("service", serviceKey),
			logger.Error(err))
	}
}

// assemble normalizes the negotiated capabilities into the immutable
// result shape: deterministic item order plus aggregate counts.
func assemble(svc domain.ServiceDescriptor, caps *ogc.Capabilities, fetchedAt int64) *domain.ServiceResult {
	items := caps.Items
	domain.SortItems(items)

	counts := domain.Counts{Items: len(items)}
	if svc.Kind == domain.KindWMS {
		styles := 0
		for _, item := range items {
			styles += len(item.Styles)
		}
		counts.Styles = &styles
	}

	return &domain.ServiceResult{
		Service: domain.ServiceInfo{
			Key:             svc.Key,
			Label:           svc.Label,
			Kind:            svc.Kind,
			URL:             svc.BaseURL,
			CapabilitiesURL: caps.CapabilitiesURL,
			Version:         caps.Version,
			OutputFormats:   caps.OutputFormats,
		},
		Counts:          counts,
		Items:           items,
		FetchedAt:       fetchedAt,
		FetchDurationMs: caps.FetchDuration.Milliseconds(),
	}
}
