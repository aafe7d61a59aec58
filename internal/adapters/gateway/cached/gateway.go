// Package cached decorates a gateway with a short-lived gallery cache.
package cached

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

const galleryKey = "gallery"

// Gateway caches ListImages for ttl. Marker and chat calls always reach the
// backend since they are polled for freshness; a created marker drops the
// cached gallery.
type Gateway struct {
	ports.Gateway
	cache *cache.Cache
}

var _ ports.Gateway = (*Gateway)(nil)

func New(next ports.Gateway, ttl time.Duration) *Gateway {
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}

	return &Gateway{
		Gateway: next,
		cache:   cache.New(ttl, cleanup),
	}
}

func (g *Gateway) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	if x, found := g.cache.Get(galleryKey); found {
		return append([]domain.ImageSummary(nil), x.([]domain.ImageSummary)...), nil
	}

	images, err := g.Gateway.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	g.cache.Set(galleryKey, append([]domain.ImageSummary(nil), images...), cache.DefaultExpiration)
	return images, nil
}

func (g *Gateway) PostMarker(ctx context.Context, imageID domain.ImageID, marker domain.NewMarker) (domain.Marker, error) {
	created, err := g.Gateway.PostMarker(ctx, imageID, marker)
	if err != nil {
		return domain.Marker{}, err
	}
	g.Invalidate()
	return created, nil
}

func (g *Gateway) Invalidate() {
	g.cache.Delete(galleryKey)
}
