package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	t "github.com/empite/localfeeds/internal/types"
)

type Geocoder interface {
	GeoCode(ctx context.Context, address string) (*t.Coordinates, error)
}

// GeocodePlatform stands in for a device location subsystem on hosts that
// have none. The "device" sits at a fixed street address which is resolved
// through a forward geocoder, and permission is a fixed answer. Without an
// address every position query fails.
type GeocodePlatform struct {
	geocoder   Geocoder
	address    string
	permission bool
	now        func() time.Time

	mu      sync.Mutex
	last    *t.Coordinates
	lastFix time.Time
}

type GeocodeOption func(*GeocodePlatform)

func PermissionOption(granted bool) GeocodeOption {
	return func(p *GeocodePlatform) {
		p.permission = granted
	}
}

func ClockOption(now func() time.Time) GeocodeOption {
	return func(p *GeocodePlatform) {
		p.now = now
	}
}

func NewGeocodePlatform(geocoder Geocoder, address string, opts ...GeocodeOption) *GeocodePlatform {
	p := &GeocodePlatform{
		geocoder:   geocoder,
		address:    address,
		permission: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.geocoder == nil && p.address != "" {
		panic("Missing geocoder in geocode platform")
	}
	return p
}

func (p *GeocodePlatform) RequiresPermission() bool {
	return true
}

func (p *GeocodePlatform) RequestPermission(_ context.Context, _ Rationale) (bool, error) {
	return p.permission, nil
}

// CurrentPosition returns the cached fix while it is younger than
// opts.MaximumAge, otherwise it geocodes the address again.
func (p *GeocodePlatform) CurrentPosition(ctx context.Context, opts PositionOptions) (t.Coordinates, error) {
	if p.address == "" {
		return t.Coordinates{}, errors.New("no device address configured")
	}

	p.mu.Lock()
	if p.last != nil && p.now().Sub(p.lastFix) <= opts.MaximumAge {
		fix := *p.last
		p.mu.Unlock()
		return fix, nil
	}
	p.mu.Unlock()

	coords, err := p.geocoder.GeoCode(ctx, p.address)
	if err != nil {
		return t.Coordinates{}, err
	}
	if coords == nil {
		return t.Coordinates{}, fmt.Errorf("address '%v' could not be geocoded", p.address)
	}

	p.mu.Lock()
	p.last = coords
	p.lastFix = p.now()
	p.mu.Unlock()
	return *coords, nil
}
