package weather

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/empite/localfeeds/internal/sample"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

// Source is implemented by openweather.Client.
type Source interface {
	DailyForecast(ctx context.Context, coords t.Coordinates, count int) (*t.ForecastResponse, error)
}

type FetcherOption func(*Fetcher)

func ClockOption(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

func RandOption(rng *rand.Rand) FetcherOption {
	return func(f *Fetcher) {
		f.rng = rng
	}
}

type Fetcher struct {
	source Source
	logger *zap.SugaredLogger
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewFetcher(source Source, logger *zap.SugaredLogger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source: source,
		logger: logger,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.source == nil {
		panic("Missing source in forecast fetcher")
	}
	if f.logger == nil {
		f.logger = zap.NewNop().Sugar()
	}
	return f
}

// Fetch never fails. When the provider errors, a sample forecast for
// coords is returned instead.
func (f *Fetcher) Fetch(ctx context.Context, coords t.Coordinates) t.ForecastResponse {
	resp, err := f.source.DailyForecast(ctx, coords, sample.ForecastDays)
	if err == nil && resp != nil {
		f.logger.Debugw("forecast fetched", "days", len(resp.Days), "location", resp.Location.Name)
		return *resp
	}
	if err != nil {
		f.logger.Errorw(err.Error(),
			"latitude", coords.Latitude, "longitude", coords.Longitude, "action", "DailyForecast")
	}
	f.logger.Warnw("Loading sample weather data", "latitude", coords.Latitude, "longitude", coords.Longitude)

	f.mu.Lock()
	defer f.mu.Unlock()
	return sample.Forecast(coords, f.now(), f.rng)
}
