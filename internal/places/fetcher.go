package places

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/empite/localfeeds/internal/sample"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

type Source interface {
	Nearby(ctx context.Context, coords t.Coordinates, radius float64) ([]t.Restaurant, error)
}

type FetcherOption func(*Fetcher)

func RandOption(rng *rand.Rand) FetcherOption {
	return func(f *Fetcher) {
		f.rng = rng
	}
}

type Fetcher struct {
	source Source
	logger *zap.SugaredLogger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewFetcher(source Source, logger *zap.SugaredLogger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source: source,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.source == nil {
		panic("Missing source in places fetcher")
	}
	if f.logger == nil {
		f.logger = zap.NewNop().Sugar()
	}
	return f
}

// Fetch never fails: any proxy error, timeout or non-OK status yields the
// sample catalog around coords.
func (f *Fetcher) Fetch(ctx context.Context, coords t.Coordinates, radius float64) []t.Restaurant {
	if radius <= 0 {
		radius = DefaultRadius
	}
	list, err := f.source.Nearby(ctx, coords, radius)
	if err == nil {
		f.logger.Debugw("places fetched", "count", len(list))
		return list
	}

	f.logger.Errorw(err.Error(),
		"latitude", coords.Latitude, "longitude", coords.Longitude, "radius", radius, "action", "Nearby")
	f.logger.Warnw("Loading sample restaurant data", "latitude", coords.Latitude, "longitude", coords.Longitude)

	f.mu.Lock()
	defer f.mu.Unlock()
	return sample.Restaurants(coords, f.rng)
}
