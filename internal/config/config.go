// Package config reads service settings from lower-case environment
// variables. Binaries call LoadDotEnv first so a local .env file can
// supply them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/empite/localfeeds/internal/firebase"
	gp "github.com/empite/localfeeds/internal/googleplaces"
	ow "github.com/empite/localfeeds/internal/openweather"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const (
	DefaultPositionstackUrl = "http://api.positionstack.com/v1"

	defaultPort           = "8080"
	defaultPlacesRps      = 10
	defaultOpenWeatherRps = 1
)

type Proxy struct {
	PlacesApiKey  string
	PlacesBaseUrl string
	RedisAddress  string
	DisableRedis  bool
	PlacesRps     float64
	Port          string
}

type Client struct {
	PlacesProxyUrl string

	OpenWeatherApiKey  string
	OpenWeatherBaseUrl string
	OpenWeatherRps     float64

	PositionstackApiKey  string
	PositionstackBaseUrl string
	DeviceAddress        string
	LocationGranted      bool

	FirebaseApiKey  string
	FirebaseBaseUrl string

	LoginEmail    string
	LoginPassword string
}

// LoadDotEnv loads .env into the process environment. A missing file is
// not an error for callers that only rely on real environment variables.
func LoadDotEnv() error {
	return godotenv.Load()
}

// LoadProxy never requires the places key; the proxy answers 500 for
// every search while it is unset.
func LoadProxy() (*Proxy, error) {
	var err error
	p := &Proxy{
		PlacesApiKey:  os.Getenv("google_places_apikey"),
		PlacesBaseUrl: getenvDefault("google_places_baseurl", gp.DefaultBaseUrl),
		RedisAddress:  os.Getenv("redis_address"),
		Port:          getenvDefault("port", defaultPort),
	}

	if v := os.Getenv("disable_redis"); v != "" {
		b, perr := strconv.ParseBool(v)
		err = multierr.Append(err, wrapParse("disable_redis", perr))
		p.DisableRedis = b
	}
	if p.RedisAddress == "" {
		p.DisableRedis = true
	}

	rps, perr := floatDefault("places_rps", defaultPlacesRps)
	err = multierr.Append(err, perr)
	p.PlacesRps = rps

	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadClient reports every missing or malformed value at once.
func LoadClient() (*Client, error) {
	var err error
	c := &Client{
		PlacesProxyUrl:       os.Getenv("places_proxy_url"),
		OpenWeatherApiKey:    os.Getenv("openweather_apikey"),
		OpenWeatherBaseUrl:   getenvDefault("openweather_baseurl", ow.DefaultBaseUrl),
		PositionstackApiKey:  os.Getenv("positionstack_apikey"),
		PositionstackBaseUrl: getenvDefault("positionstack_baseurl", DefaultPositionstackUrl),
		DeviceAddress:        os.Getenv("device_address"),
		FirebaseApiKey:       os.Getenv("firebase_apikey"),
		FirebaseBaseUrl:      getenvDefault("firebase_baseurl", firebase.DefaultBaseUrl),
		LoginEmail:           os.Getenv("login_email"),
		LoginPassword:        os.Getenv("login_password"),
	}

	required := []struct {
		name  string
		value string
	}{
		{"places_proxy_url", c.PlacesProxyUrl},
		{"openweather_apikey", c.OpenWeatherApiKey},
		{"firebase_apikey", c.FirebaseApiKey},
	}
	for _, r := range required {
		if r.value == "" {
			err = multierr.Append(err, fmt.Errorf("missing required env %s", r.name))
		}
	}

	if c.DeviceAddress != "" && c.PositionstackApiKey == "" {
		err = multierr.Append(err, errors.New("missing required env positionstack_apikey for device_address"))
	}

	switch perm := getenvDefault("location_permission", "granted"); perm {
	case "granted":
		c.LocationGranted = true
	case "denied":
		c.LocationGranted = false
	default:
		err = multierr.Append(err, fmt.Errorf("location_permission must be granted or denied, got %q", perm))
	}

	rps, perr := floatDefault("openweather_rps", defaultOpenWeatherRps)
	err = multierr.Append(err, perr)
	c.OpenWeatherRps = rps

	if err != nil {
		return nil, err
	}
	return c, nil
}

func getenvDefault(name string, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func floatDefault(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, wrapParse(name, err)
	}
	if f <= 0 {
		return def, fmt.Errorf("%s must be positive, got %v", name, f)
	}
	return f, nil
}

func wrapParse(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s: %w", name, err)
}
