package weather

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/empite/localfeeds/internal/openweather"
	"github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap/zaptest"
)

type failingSource struct{ calls int }

func (f *failingSource) DailyForecast(context.Context, types.Coordinates, int) (*types.ForecastResponse, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestFetchFallsBackOnTransportError(t *testing.T) {
	now := time.Unix(1700000000, 0)
	src := &failingSource{}
	f := NewFetcher(src, zaptest.NewLogger(t).Sugar(),
		ClockOption(func() time.Time { return now }),
		RandOption(rand.New(rand.NewSource(1))))

	coords := types.Coordinates{Latitude: 48.85, Longitude: 2.35}
	resp := f.Fetch(context.Background(), coords)

	if !resp.Sample {
		t.Fatal("expected sample data")
	}
	if len(resp.Days) != 16 {
		t.Fatalf("expected 16 days, got %d", len(resp.Days))
	}
	for i := 1; i < len(resp.Days); i++ {
		if resp.Days[i].Timestamp-resp.Days[i-1].Timestamp != 86400 {
			t.Errorf("day %d not 86400s after previous", i)
		}
	}
	if resp.Location.Coordinates != coords {
		t.Errorf("sample should be labelled with requested coordinates, got %+v", resp.Location.Coordinates)
	}
	if src.calls != 1 {
		t.Errorf("expected one provider call, got %d", src.calls)
	}
}

func TestFetchFallsBackOnNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer ts.Close()

	client := openweather.New(openweather.ApiKeyOption("k"), openweather.BaseUrlOption(ts.URL))
	f := NewFetcher(client, zaptest.NewLogger(t).Sugar())

	resp := f.Fetch(context.Background(), types.Coordinates{Latitude: 1, Longitude: 1})
	if !resp.Sample || len(resp.Days) != 16 {
		t.Errorf("expected 16 sample days, got sample=%v len=%d", resp.Sample, len(resp.Days))
	}
}

func TestFetchReturnsProviderData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cod":"200","city":{"name":"Colombo","country":"LK"},"list":[{"dt":1,"temp":{"day":30}}]}`))
	}))
	defer ts.Close()

	client := openweather.New(openweather.ApiKeyOption("k"), openweather.BaseUrlOption(ts.URL))
	f := NewFetcher(client, zaptest.NewLogger(t).Sugar())

	resp := f.Fetch(context.Background(), types.Coordinates{Latitude: 6.9, Longitude: 79.8})
	if resp.Sample {
		t.Fatal("expected provider data")
	}
	if resp.Location.Name != "Colombo" || len(resp.Days) != 1 || resp.Days[0].Temp.Day != 30 {
		t.Errorf("unexpected response %+v", resp)
	}
}
