package positionstack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/empite/localfeeds/internal/common"
	t "github.com/empite/localfeeds/internal/types"
)

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

type Client struct {
	apiKey  string
	baseUrl string
	hc      *http.Client
}

func New(opts ...ClientOption) *Client {
	c := &Client{
		hc: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		panic("Missing apikey in positionStack client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in positionStack client")
	}
	return c
}

// GeoCode returns nil coordinates when positionstack knows no match.
func (c *Client) GeoCode(ctx context.Context, address string) (*t.Coordinates, error) {
	req, err := url.Parse(fmt.Sprintf("%v/forward", c.baseUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to parse positionstack baseUrl %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("access_key", c.apiKey)
	q.Add("query", address)
	q.Add("limit", "1")
	req.RawQuery = q.Encode()

	ctxReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create positionstack request: %w", common.Redact(err))
	}
	body, err := common.Do(c.hc, ctxReq, "positionstack")
	if err != nil {
		return nil, err
	}

	var respObj ForwardResponse
	if err := json.Unmarshal(body, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from positionstack: %w", err)
	}
	if len(respObj.Data) == 0 || respObj.Data[0] == nil {
		return nil, nil
	}
	return &t.Coordinates{
		Latitude:  respObj.Data[0].Latitude,
		Longitude: respObj.Data[0].Longitude,
	}, nil
}
