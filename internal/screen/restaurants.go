package screen

import (
	"context"

	"github.com/empite/localfeeds/internal/location"
	"github.com/empite/localfeeds/internal/places"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

type PlacesFetcher interface {
	Fetch(ctx context.Context, coords t.Coordinates, radius float64) []t.Restaurant
}

func RestaurantLocationConfig() location.Config {
	cfg := location.DefaultConfig()
	cfg.PermissionMessage = "This app needs access to your location to show nearby restaurants."
	cfg.DeniedMessage = "Location permission is required to show restaurants."
	cfg.ErrorMessage = "Using default location."
	return cfg
}

func NewRestaurants(resolver LocationResolver, fetcher PlacesFetcher, session SignOuter, logger *zap.SugaredLogger) *Controller[[]t.Restaurant] {
	fetch := func(ctx context.Context, coords t.Coordinates) []t.Restaurant {
		return fetcher.Fetch(ctx, coords, places.DefaultRadius)
	}
	return New[[]t.Restaurant]("restaurants", resolver, RestaurantLocationConfig(), fetch, session, logger)
}
