package googleplaces

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/empite/localfeeds/internal/common"
	t "github.com/empite/localfeeds/internal/types"
	"golang.org/x/time/rate"
)

const DefaultBaseUrl = "https://maps.googleapis.com/maps/api/place"

type NearbyRequest struct {
	Location t.Coordinates
	Radius   float64
	Type     string
}

type ClientOption func(*Client)

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

func RateLimitOption(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client talks to the Places web service. Unlike the other clients it does
// not panic on a missing key: the proxy must still answer requests and
// report the misconfiguration itself.
type Client struct {
	apiKey  string
	baseUrl string
	hc      *http.Client
	limiter *rate.Limiter
}

func New(opts ...ClientOption) *Client {
	c := &Client{
		baseUrl: DefaultBaseUrl,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in googleplaces client")
	}
	return c
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// NearbySearch returns the raw response body. A non-2xx answer comes back
// as a *common.StatusError holding the upstream payload.
func (c *Client) NearbySearch(ctx context.Context, nr NearbyRequest) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("googleplaces rate limit wait canceled: %w", err)
		}
	}

	req, err := url.Parse(c.baseUrl + "/nearbysearch/json")
	if err != nil {
		return nil, fmt.Errorf("failed to parse googleplaces baseUrl %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("location", fmt.Sprintf("%v,%v", nr.Location.Latitude, nr.Location.Longitude))
	q.Add("radius", strconv.FormatFloat(nr.Radius, 'f', -1, 64))
	q.Add("type", nr.Type)
	q.Add("key", c.apiKey)
	req.RawQuery = q.Encode()

	ctxReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create googleplaces request: %w", common.Redact(err))
	}
	return common.Do(c.hc, ctxReq, "googleplaces")
}
