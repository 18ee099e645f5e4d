package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/empite/localfeeds/internal/common"
	"github.com/empite/localfeeds/internal/types"
	"golang.org/x/time/rate"
)

const DefaultBaseUrl = "https://api.openweathermap.org/data/2.5"

type Response struct {
	City    City            `json:"city"`
	Cod     json.Number     `json:"cod"`
	Message json.RawMessage `json:"message"`
	Cnt     int             `json:"cnt"`
	List    []Day           `json:"list"`
}

type City struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Coord   struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
}

type Day struct {
	Time      int64             `json:"dt"`
	Temp      types.Temperature `json:"temp"`
	FeelsLike types.FeelsLike   `json:"feels_like"`
	Pressure  float64           `json:"pressure"`
	Humidity  float64           `json:"humidity"`
	Weather   []Conditions      `json:"weather"`
	Speed     float64           `json:"speed"`
	Deg       float64           `json:"deg"`
	Gust      float64           `json:"gust"`
	Clouds    float64           `json:"clouds"`
	Pop       float64           `json:"pop"`
	Rain      *float64          `json:"rain"`
}

type Conditions struct {
	Id          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type ClientOption func(*Client)

type Client struct {
	apiKey  string
	baseUrl string
	hc      *http.Client
	limiter *rate.Limiter
}

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// RateLimitOption caps outgoing requests. The free tier allows 60 calls
// a minute.
func RateLimitOption(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{
		baseUrl: DefaultBaseUrl,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		panic("Missing apikey in openweather client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in openweather client")
	}
	return c
}

// DailyForecast fetches count days starting today, in metric units.
func (c *Client) DailyForecast(ctx context.Context, coords types.Coordinates, count int) (*types.ForecastResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("openweather rate limit wait canceled: %w", err)
		}
	}

	req, err := url.Parse(c.baseUrl + "/forecast/daily")
	if err != nil {
		return nil, fmt.Errorf("failed to parse baseUrl %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Add("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Add("cnt", strconv.Itoa(count))
	q.Add("units", "metric")
	q.Add("appid", c.apiKey)
	req.RawQuery = q.Encode()

	ctxReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create openweather request: %w", common.Redact(err))
	}
	body, err := common.Do(c.hc, ctxReq, "openweather")
	if err != nil {
		return nil, err
	}

	var respObj Response
	if err := json.Unmarshal(body, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from openweather: %w", err)
	}
	if respObj.Cod.String() != "200" {
		return nil, fmt.Errorf("openweather returned cod %q: %s", respObj.Cod.String(), string(respObj.Message))
	}

	return &types.ForecastResponse{
		Location: types.Location{
			Name:    respObj.City.Name,
			Country: respObj.City.Country,
			Coordinates: types.Coordinates{
				Latitude:  respObj.City.Coord.Lat,
				Longitude: respObj.City.Coord.Lon,
			},
		},
		Days: c.daysFromOW(respObj.List),
	}, nil
}

func (c *Client) daysFromOW(owDays []Day) []types.ForecastDay {
	days := make([]types.ForecastDay, 0, len(owDays))
	for _, d := range owDays {
		var conditions types.Conditions
		if len(d.Weather) > 0 {
			conditions = types.Conditions{
				Id:          d.Weather[0].Id,
				Main:        d.Weather[0].Main,
				Description: d.Weather[0].Description,
				Icon:        d.Weather[0].Icon,
			}
		}
		days = append(days, types.ForecastDay{
			Timestamp:  d.Time,
			Temp:       d.Temp,
			FeelsLike:  d.FeelsLike,
			Pressure:   d.Pressure,
			Humidity:   d.Humidity,
			Clouds:     d.Clouds,
			Pop:        d.Pop,
			WindSpeed:  d.Speed,
			WindDeg:    d.Deg,
			WindGust:   d.Gust,
			Rain:       d.Rain,
			Conditions: conditions,
		})
	}
	return days
}

// IconUrl returns the 2x icon image for an openweather icon code.
func IconUrl(iconCode string) string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", iconCode)
}
