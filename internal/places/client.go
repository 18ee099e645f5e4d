package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/empite/localfeeds/internal/common"
	gp "github.com/empite/localfeeds/internal/googleplaces"
	t "github.com/empite/localfeeds/internal/types"
)

const (
	DefaultRadius  = 1500
	requestTimeout = 10 * time.Second
)

type Request struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// StatusError reports a proxy answer that was not an OK search.
type StatusError struct {
	Status       string
	ErrorMessage string
}

func (e *StatusError) Error() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("places status %s: %s", e.Status, e.ErrorMessage)
	}
	return fmt.Sprintf("places status %s", e.Status)
}

type ClientOption func(*Client)

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// Client calls the places proxy, never the upstream provider.
type Client struct {
	proxyUrl string
	hc       *http.Client
}

func New(proxyUrl string, opts ...ClientOption) *Client {
	c := &Client{
		proxyUrl: proxyUrl,
		hc:       &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.proxyUrl == "" {
		panic("Missing proxyUrl in places client")
	}
	return c
}

func (c *Client) Nearby(ctx context.Context, coords t.Coordinates, radius float64) ([]t.Restaurant, error) {
	payload, err := json.Marshal(Request{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Radius:    radius,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyUrl, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := common.Do(c.hc, req, "places proxy")
	if err != nil {
		return nil, err
	}

	var respObj gp.Response
	if err := json.Unmarshal(body, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from places proxy: %w", err)
	}
	if respObj.Status != "OK" {
		return nil, &StatusError{Status: respObj.Status, ErrorMessage: respObj.ErrorMessage}
	}
	return restaurantsFromPlaces(respObj.Results), nil
}

func restaurantsFromPlaces(results []gp.Place) []t.Restaurant {
	out := make([]t.Restaurant, 0, len(results))
	for _, p := range results {
		r := t.Restaurant{
			ID:      p.PlaceId,
			Name:    p.Name,
			Address: p.Vicinity,
			Coordinates: t.Coordinates{
				Latitude:  p.Geometry.Location.Lat,
				Longitude: p.Geometry.Location.Lng,
			},
			Rating:       p.Rating,
			RatingsTotal: p.UserRatingsTotal,
			PriceLevel:   p.PriceLevel,
			Types:        p.Types,
		}
		if p.OpeningHours != nil {
			open := p.OpeningHours.OpenNow
			r.OpenNow = &open
		}
		out = append(out, r)
	}
	return out
}
