package roadnetwork

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/kv"
	"kmend/agriroute/pkg/server"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RoadNetworkSource fetches raw road data for a region (Overpass, pbf extract).
type RoadNetworkSource interface {
	Name() string
	FetchRoadNetwork(ctx context.Context, bb datastructure.BoundingBox) (*datastructure.RoadGraph, error)
}

// GraphStore persistent graph tier.
type GraphStore interface {
	GetGraph(key string) (*datastructure.RoadGraph, error)
	SaveGraph(g *datastructure.RoadGraph) error
}

// Provider returns the road graph of a bounding box.
// Lookup order: memory LRU, disk store, source. Builds for the same key are coalesced
// and run detached from the caller, so one waiter going away does not cancel them.
type Provider struct {
	source       RoadNetworkSource
	store        GraphStore
	cache        *expirable.LRU[string, *datastructure.RoadGraph]
	group        singleflight.Group
	ttl          time.Duration
	buildTimeout time.Duration
	log          *zap.Logger

	builds atomic.Int64
}

// NewProvider store may be nil.
func NewProvider(source RoadNetworkSource, store GraphStore, cacheSize int, ttl, buildTimeout time.Duration, log *zap.Logger) *Provider {
	return &Provider{
		source:       source,
		store:        store,
		cache:        expirable.NewLRU[string, *datastructure.RoadGraph](cacheSize, nil, ttl),
		ttl:          ttl,
		buildTimeout: buildTimeout,
		log:          log,
	}
}

// Builds number of successful source fetches so far.
func (p *Provider) Builds() int64 {
	return p.builds.Load()
}

// cached memory tier hit. The LRU TTL counts from insertion, so a graph promoted from disk
// is also checked against its FetchedAt.
func (p *Provider) cached(key string) (*datastructure.RoadGraph, bool) {
	g, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	if p.expired(g) {
		p.cache.Remove(key)
		return nil, false
	}
	return g, true
}

func (p *Provider) expired(g *datastructure.RoadGraph) bool {
	return p.ttl > 0 && time.Since(g.FetchedAt) >= p.ttl
}

func (p *Provider) GraphFor(ctx context.Context, bb datastructure.BoundingBox) (*datastructure.RoadGraph, error) {
	key := bb.Key()
	if g, ok := p.cached(key); ok {
		p.log.Debug("road graph cache hit", zap.String("key", key))
		return g, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		return p.load(detached, bb, key)
	})

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, server.WrapErrorf(ctx.Err(), server.ErrInternalTimeout, "timed out waiting for road network of region %s", key)
		}
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*datastructure.RoadGraph), nil
	}
}

func (p *Provider) load(ctx context.Context, bb datastructure.BoundingBox, key string) (*datastructure.RoadGraph, error) {
	if g, ok := p.cached(key); ok {
		return g, nil
	}

	if p.store != nil {
		g, err := p.store.GetGraph(key)
		switch {
		case err == nil && !p.expired(g):
			p.log.Debug("road graph loaded from disk", zap.String("key", key), zap.Time("fetched_at", g.FetchedAt))
			p.cache.Add(key, g)
			return g, nil
		case err != nil && !errors.Is(err, kv.ErrGraphNotFound):
			p.log.Warn("road graph store read failed", zap.String("key", key), zap.Error(err))
		}
	}

	buildCtx, cancel := context.WithTimeout(ctx, p.buildTimeout)
	defer cancel()

	start := time.Now()
	g, err := p.source.FetchRoadNetwork(buildCtx, bb)
	if err != nil {
		p.log.Warn("road network fetch failed", zap.String("key", key), zap.String("source", p.source.Name()), zap.Error(err))
		unavailable := server.WrapErrorf(err, server.ErrRoadNetworkUnavailable, "road network unavailable for region %s", key)
		if server.IsTimeout(err) || errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
			return nil, server.WrapErrorf(unavailable, server.ErrInternalTimeout, "road network fetch timed out for region %s", key)
		}
		return nil, unavailable
	}

	p.builds.Add(1)
	p.log.Info("road graph built",
		zap.String("key", key),
		zap.String("source", p.source.Name()),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Duration("took", time.Since(start)))

	p.cache.Add(key, g)
	if p.store != nil {
		if err := p.store.SaveGraph(g); err != nil {
			p.log.Warn("road graph store write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return g, nil
}
