package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"
	"kmend/agriroute/pkg/server"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Candidate struct {
	Coord       datastructure.Coordinate
	DisplayName string
}

// Provider a geocoding backend. Candidates come back ordered by relevance.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]Candidate, error)
}

// SharedCache second cache tier shared between instances.
type SharedCache interface {
	Get(ctx context.Context, key string) (datastructure.Coordinate, bool, error)
	Set(ctx context.Context, key string, c datastructure.Coordinate) error
}

// Locale area where resolved places are accepted.
type Locale struct {
	Center   datastructure.Coordinate
	RadiusKm float64
}

func (l Locale) accepts(c datastructure.Coordinate) bool {
	if l.RadiusKm <= 0 {
		return true
	}
	return l.Center.DistanceMeters(c) <= l.RadiusKm*1000
}

type Resolver struct {
	primary   Provider
	secondary Provider
	cache     *expirable.LRU[string, datastructure.Coordinate]
	shared    SharedCache
	locale    Locale
	timeout   time.Duration
	log       *zap.Logger
	group     singleflight.Group // one provider lookup per key at a time
}

// NewResolver secondary and shared may be nil.
func NewResolver(primary, secondary Provider, shared SharedCache, locale Locale,
	cacheSize int, cacheTTL, timeout time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		cache:     expirable.NewLRU[string, datastructure.Coordinate](cacheSize, nil, cacheTTL),
		shared:    shared,
		locale:    locale,
		timeout:   timeout,
		log:       log,
	}
}

// Normalize trims, lowercases and collapses inner whitespace.
func Normalize(placeText string) string {
	return strings.Join(strings.Fields(strings.ToLower(placeText)), " ")
}

func (r *Resolver) Resolve(ctx context.Context, placeText string) (datastructure.Coordinate, error) {
	key := Normalize(placeText)
	if key == "" {
		return datastructure.Coordinate{}, server.WrapErrorf(nil, server.ErrBadParamInput, "place name is empty")
	}

	if c, ok := r.cache.Get(key); ok {
		return c, nil
	}
	if r.shared != nil {
		c, ok, err := r.shared.Get(ctx, key)
		if err != nil {
			r.log.Warn("shared geocode cache read failed", zap.String("place", key), zap.Error(err))
		} else if ok {
			r.cache.Add(key, c)
			return c, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.fill(detached, key)
	})

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return datastructure.Coordinate{}, server.WrapErrorf(ctx.Err(), server.ErrInternalTimeout, "timed out geocoding %q", key)
		}
		return datastructure.Coordinate{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return datastructure.Coordinate{}, res.Err
		}
		return res.Val.(datastructure.Coordinate), nil
	}
}

// fill runs under the per-key flight: lookup plus both cache writes.
func (r *Resolver) fill(ctx context.Context, key string) (datastructure.Coordinate, error) {
	if c, ok := r.cache.Get(key); ok {
		return c, nil
	}

	c, err := r.lookup(ctx, key)
	if err != nil {
		return datastructure.Coordinate{}, err
	}

	r.cache.Add(key, c)
	if r.shared != nil {
		if err := r.shared.Set(ctx, key, c); err != nil {
			r.log.Warn("shared geocode cache write failed", zap.String("place", key), zap.Error(err))
		}
	}
	return c, nil
}

// lookup asks the primary provider, then the secondary once when the primary failed
// or had no acceptable match.
func (r *Resolver) lookup(ctx context.Context, key string) (datastructure.Coordinate, error) {
	providers := []Provider{r.primary}
	if r.secondary != nil {
		providers = append(providers, r.secondary)
	}

	var errs []error
	timedOut := 0
	for _, p := range providers {
		c, err := r.query(ctx, p, key)
		if err == nil {
			return c, nil
		}
		errs = append(errs, err)
		if server.IsTimeout(err) {
			timedOut++
		}
		if ctx.Err() != nil {
			break
		}
	}

	joined := errors.Join(errs...)
	if timedOut == len(errs) {
		return datastructure.Coordinate{}, server.WrapErrorf(joined, server.ErrInternalTimeout, "geocoding %q timed out", key)
	}
	return datastructure.Coordinate{}, server.WrapErrorf(joined, server.ErrLocationNotFound, "location %q not found", key)
}

func (r *Resolver) query(ctx context.Context, p Provider, key string) (datastructure.Coordinate, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := p.Geocode(callCtx, key)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s: %w", p.Name(), context.DeadlineExceeded)
		}
		r.log.Warn("geocoding provider failed", zap.String("provider", p.Name()), zap.String("place", key), zap.Error(err))
		return datastructure.Coordinate{}, err
	}
	for _, cand := range candidates {
		if cand.Coord.Valid() && r.locale.accepts(cand.Coord) {
			r.log.Debug("place resolved",
				zap.String("provider", p.Name()),
				zap.String("place", key),
				zap.String("match", cand.DisplayName))
			return cand.Coord, nil
		}
	}
	return datastructure.Coordinate{}, fmt.Errorf("%s: no match for %q within %.0f km of %s",
		p.Name(), key, r.locale.RadiusKm, r.locale.Center)
}
