package positionstack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeoCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forward" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("access_key") != "key" || q.Get("query") != "1 Galle Road, Colombo" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"data":[{"latitude":6.91,"longitude":79.85,"label":"Galle Road"}]}`))
	}))
	defer ts.Close()

	c := New(ApiKeyOption("key"), BaseUrlOption(ts.URL))
	coords, err := c.GeoCode(context.Background(), "1 Galle Road, Colombo")
	if err != nil {
		t.Fatalf("GeoCode returned error: %v", err)
	}
	if coords == nil || coords.Latitude != 6.91 || coords.Longitude != 79.85 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestGeoCodeNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	c := New(ApiKeyOption("key"), BaseUrlOption(ts.URL))
	coords, err := c.GeoCode(context.Background(), "nowhere")
	if err != nil || coords != nil {
		t.Errorf("expected nil, nil; got %+v, %v", coords, err)
	}
}

func TestGeoCodeStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := New(ApiKeyOption("key"), BaseUrlOption(ts.URL))
	if _, err := c.GeoCode(context.Background(), "x"); err == nil {
		t.Error("expected error for 401")
	}
}

func TestNewPanicsWithoutKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New(BaseUrlOption("http://example.com"))
}
