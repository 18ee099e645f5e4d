// Package sample synthesizes forecast and restaurant payloads that stand in
// for a provider response when the provider cannot be reached. Output
// depends only on the arguments, so a seeded *rand.Rand gives a repeatable
// payload.
package sample

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	t "github.com/empite/localfeeds/internal/types"
)

const (
	ForecastDays      = 16
	RestaurantJitter  = 0.01
	secondsPerDay     = 24 * 60 * 60
	sampleLocation    = "Sample Location"
	sampleCountryCode = "XX"
)

var palette = []t.Conditions{
	{Main: "Clear", Description: "clear sky", Icon: "01d"},
	{Main: "Clouds", Description: "few clouds", Icon: "02d"},
	{Main: "Clouds", Description: "scattered clouds", Icon: "03d"},
	{Main: "Rain", Description: "light rain", Icon: "10d"},
	{Main: "Clouds", Description: "broken clouds", Icon: "04d"},
}

var restaurantNames = []string{
	"Joe's Pizza",
	"Sushi Paradise",
	"Burger Haven",
	"Pasta Palace",
	"Taco Fiesta",
	"Indian Spice",
	"Thai Kitchen",
	"Chinese Garden",
	"Mediterranean Grill",
	"Coffee & Bistro",
}

// Forecast builds ForecastDays days starting at now. Temperatures depend
// on the day index only; coords just label the response.
func Forecast(coords t.Coordinates, now time.Time, rng *rand.Rand) t.ForecastResponse {
	days := make([]t.ForecastDay, ForecastDays)
	for i := range days {
		condition := palette[i%len(palette)]
		condition.Id = 800 + i
		base := 20 + math.Sin(float64(i)/3)*8

		day := t.ForecastDay{
			Timestamp: now.Unix() + int64(i*secondsPerDay),
			Temp: t.Temperature{
				Day:   base + 3,
				Min:   base - 2,
				Max:   base + 5,
				Night: base - 3,
				Eve:   base + 1,
				Morn:  base - 1,
			},
			FeelsLike: t.FeelsLike{
				Day:   base + 2,
				Night: base - 4,
				Eve:   base,
				Morn:  base - 2,
			},
			Pressure:   between(rng, 1010, 1030),
			Humidity:   between(rng, 50, 80),
			WindSpeed:  between(rng, 2, 5),
			WindDeg:    between(rng, 0, 360),
			WindGust:   between(rng, 3, 7),
			Clouds:     between(rng, 0, 100),
			Pop:        between(rng, 0, 0.5),
			Conditions: condition,
		}
		if condition.Main == "Rain" {
			rain := between(rng, 0, 5)
			day.Rain = &rain
		}
		days[i] = day
	}

	return t.ForecastResponse{
		Location: t.Location{
			Name:        sampleLocation,
			Country:     sampleCountryCode,
			Coordinates: coords,
		},
		Days:   days,
		Sample: true,
	}
}

// Restaurants places the fixed catalog around coords, each within
// RestaurantJitter/2 degrees on both axes.
func Restaurants(coords t.Coordinates, rng *rand.Rand) []t.Restaurant {
	out := make([]t.Restaurant, 0, len(restaurantNames))
	for i, name := range restaurantNames {
		offsetLat := (rng.Float64() - 0.5) * RestaurantJitter
		offsetLng := (rng.Float64() - 0.5) * RestaurantJitter
		rating := between(rng, 3.5, 5)
		total := rng.Intn(500) + 50
		price := rng.Intn(4) + 1
		open := rng.Float64() > 0.3

		out = append(out, t.Restaurant{
			ID:      fmt.Sprintf("sample_%d", i),
			Name:    name,
			Address: fmt.Sprintf("%d Sample Street", rng.Intn(500)+100),
			Coordinates: t.Coordinates{
				Latitude:  coords.Latitude + offsetLat,
				Longitude: coords.Longitude + offsetLng,
			},
			Rating:       &rating,
			RatingsTotal: &total,
			PriceLevel:   &price,
			OpenNow:      &open,
			Types:        []string{"restaurant", "food", "point_of_interest"},
		})
	}
	return out
}

func between(rng *rand.Rand, lo float64, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
