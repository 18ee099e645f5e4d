package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/empite/localfeeds/internal/notify"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPermissionRequest   = errors.New("location permission request failed")
	ErrPositionUnavailable = errors.New("position unavailable")
)

// DefaultLocation is Colombo.
var DefaultLocation = t.Coordinates{Latitude: 6.9271, Longitude: 79.8612}

type Config struct {
	PermissionMessage string
	DeniedMessage     string
	ErrorMessage      string
	DefaultLocation   t.Coordinates
	HighAccuracy      bool
	Timeout           time.Duration
	MaximumAge        time.Duration
}

func DefaultConfig() Config {
	return Config{
		PermissionMessage: "This app needs access to your location.",
		DeniedMessage:     "Location permission is required.",
		ErrorMessage:      "Could not get your location. Using default location.",
		DefaultLocation:   DefaultLocation,
		HighAccuracy:      true,
		Timeout:           20 * time.Second,
		MaximumAge:        time.Second,
	}
}

// withDefaults fills every zero field from DefaultConfig. HighAccuracy is
// left alone since false is a meaningful choice.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PermissionMessage == "" {
		c.PermissionMessage = d.PermissionMessage
	}
	if c.DeniedMessage == "" {
		c.DeniedMessage = d.DeniedMessage
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = d.ErrorMessage
	}
	if c.DefaultLocation == (t.Coordinates{}) {
		c.DefaultLocation = d.DefaultLocation
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaximumAge <= 0 {
		c.MaximumAge = d.MaximumAge
	}
	return c
}

type Rationale struct {
	Title   string
	Message string
}

type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Platform is the device capability the resolver depends on.
type Platform interface {
	RequiresPermission() bool
	RequestPermission(ctx context.Context, rationale Rationale) (bool, error)
	CurrentPosition(ctx context.Context, opts PositionOptions) (t.Coordinates, error)
}

// Result always carries usable coordinates. Fallback is set when they are
// the configured default, and Reason says why.
type Result struct {
	Coordinates t.Coordinates
	Fallback    bool
	Reason      error
}

type Resolver struct {
	platform Platform
	notifier notify.Notifier
	logger   *zap.SugaredLogger
}

func NewResolver(platform Platform, notifier notify.Notifier, logger *zap.SugaredLogger) *Resolver {
	if platform == nil {
		panic("Missing platform in location resolver")
	}
	if notifier == nil {
		notifier = notify.Func(func(string, string) {})
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{platform: platform, notifier: notifier, logger: logger}
}

// Resolve makes a single attempt at a device fix. It never fails: on
// denial or error the user is notified once and the default is returned.
func (r *Resolver) Resolve(ctx context.Context, cfg Config) Result {
	cfg = cfg.withDefaults()

	if r.platform.RequiresPermission() {
		granted, err := r.platform.RequestPermission(ctx, Rationale{
			Title:   "Location Permission",
			Message: cfg.PermissionMessage,
		})
		if err != nil {
			r.logger.Warnw(err.Error(), "action", "RequestPermission")
			r.notifier.Notify("Error", "Failed to request location permission")
			return r.fallback(cfg, fmt.Errorf("%w: %s", ErrPermissionRequest, err.Error()))
		}
		if !granted {
			r.notifier.Notify("Permission Denied", cfg.DeniedMessage)
			return r.fallback(cfg, ErrPermissionDenied)
		}
	}

	posCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	coords, err := r.platform.CurrentPosition(posCtx, PositionOptions{
		HighAccuracy: cfg.HighAccuracy,
		Timeout:      cfg.Timeout,
		MaximumAge:   cfg.MaximumAge,
	})
	if err != nil {
		r.logger.Errorw(err.Error(), "action", "CurrentPosition")
		r.notifier.Notify("Location Error", cfg.ErrorMessage)
		return r.fallback(cfg, fmt.Errorf("%w: %s", ErrPositionUnavailable, err.Error()))
	}
	return Result{Coordinates: coords}
}

func (r *Resolver) fallback(cfg Config, reason error) Result {
	return Result{
		Coordinates: cfg.DefaultLocation,
		Fallback:    true,
		Reason:      reason,
	}
}
