package screen

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/empite/localfeeds/internal/location"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

type WeatherItem struct {
	ID          string  `json:"id"`
	Timestamp   int64   `json:"dt"`
	Date        string  `json:"date"`
	TempDay     float64 `json:"tempDay"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    float64 `json:"humidity"`
	Clouds      float64 `json:"clouds"`
}

type Forecast struct {
	Location t.Location    `json:"location"`
	Items    []WeatherItem `json:"items"`
	Sample   bool          `json:"sample"`
}

type ForecastFetcher interface {
	Fetch(ctx context.Context, coords t.Coordinates) t.ForecastResponse
}

func WeatherLocationConfig() location.Config {
	cfg := location.DefaultConfig()
	cfg.PermissionMessage = "This app needs access to your location for weather forecast."
	cfg.DeniedMessage = "Location permission is required for weather data."
	cfg.ErrorMessage = "Could not get your location. Using default location."
	return cfg
}

func NewWeather(resolver LocationResolver, fetcher ForecastFetcher, session SignOuter, logger *zap.SugaredLogger) *Controller[Forecast] {
	fetch := func(ctx context.Context, coords t.Coordinates) Forecast {
		return forecastItems(fetcher.Fetch(ctx, coords), time.Local)
	}
	return New[Forecast]("weather", resolver, WeatherLocationConfig(), fetch, session, logger)
}

// forecastItems flattens a forecast into list rows, oldest day first.
func forecastItems(resp t.ForecastResponse, loc *time.Location) Forecast {
	items := make([]WeatherItem, 0, len(resp.Days))
	for _, d := range resp.Days {
		items = append(items, WeatherItem{
			ID:          fmt.Sprintf("day-%d", d.Timestamp),
			Timestamp:   d.Timestamp,
			Date:        time.Unix(d.Timestamp, 0).In(loc).Format("Mon, Jan 2"),
			TempDay:     d.Temp.Day,
			TempMin:     d.Temp.Min,
			TempMax:     d.Temp.Max,
			Description: d.Conditions.Description,
			Icon:        d.Conditions.Icon,
			Humidity:    d.Humidity,
			Clouds:      d.Clouds,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp < items[j].Timestamp
	})
	return Forecast{Location: resp.Location, Items: items, Sample: resp.Sample}
}
