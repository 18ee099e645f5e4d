package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/empite/localfeeds/internal/notify"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap/zaptest"
)

type fakePlatform struct {
	requires   bool
	granted    bool
	permErr    error
	fix        t.Coordinates
	fixErr     error
	rationale  Rationale
	opts       PositionOptions
	deadline   bool
	positioned int
}

func (f *fakePlatform) RequiresPermission() bool { return f.requires }

func (f *fakePlatform) RequestPermission(_ context.Context, r Rationale) (bool, error) {
	f.rationale = r
	return f.granted, f.permErr
}

func (f *fakePlatform) CurrentPosition(ctx context.Context, opts PositionOptions) (t.Coordinates, error) {
	f.positioned++
	f.opts = opts
	_, f.deadline = ctx.Deadline()
	return f.fix, f.fixErr
}

func TestResolveGranted(tt *testing.T) {
	fix := t.Coordinates{Latitude: 51.5, Longitude: -0.12}
	p := &fakePlatform{requires: true, granted: true, fix: fix}
	rec := &notify.Recorder{}
	r := NewResolver(p, rec, zaptest.NewLogger(tt).Sugar())

	res := r.Resolve(context.Background(), Config{PermissionMessage: "weather please"})

	if res.Fallback || res.Reason != nil {
		tt.Fatalf("expected real fix, got %+v", res)
	}
	if res.Coordinates != fix {
		tt.Errorf("expected %+v, got %+v", fix, res.Coordinates)
	}
	if p.rationale.Message != "weather please" {
		tt.Errorf("rationale not passed, got %+v", p.rationale)
	}
	if !p.deadline {
		tt.Error("position query should run with a deadline")
	}
	if p.opts.Timeout != 20*time.Second || p.opts.MaximumAge != time.Second || !p.opts.HighAccuracy {
		tt.Errorf("unexpected position options %+v", p.opts)
	}
	if len(rec.Sent()) != 0 {
		tt.Errorf("expected no notifications, got %+v", rec.Sent())
	}
}

func TestResolveDenied(tt *testing.T) {
	p := &fakePlatform{requires: true, granted: false}
	rec := &notify.Recorder{}
	r := NewResolver(p, rec, zaptest.NewLogger(tt).Sugar())

	def := t.Coordinates{Latitude: 1, Longitude: 2}
	res := r.Resolve(context.Background(), Config{DefaultLocation: def, DeniedMessage: "need it"})

	if !res.Fallback || !errors.Is(res.Reason, ErrPermissionDenied) {
		tt.Fatalf("expected denied fallback, got %+v", res)
	}
	if res.Coordinates != def {
		tt.Errorf("expected default %+v, got %+v", def, res.Coordinates)
	}
	sent := rec.Sent()
	if len(sent) != 1 {
		tt.Fatalf("expected exactly one notification, got %d", len(sent))
	}
	if sent[0].Title != "Permission Denied" || sent[0].Message != "need it" {
		tt.Errorf("unexpected notification %+v", sent[0])
	}
	if p.positioned != 0 {
		tt.Error("position must not be queried after denial")
	}
}

func TestResolvePositionError(tt *testing.T) {
	p := &fakePlatform{requires: true, granted: true, fixErr: errors.New("gps off")}
	rec := &notify.Recorder{}
	r := NewResolver(p, rec, zaptest.NewLogger(tt).Sugar())

	res := r.Resolve(context.Background(), DefaultConfig())

	if !res.Fallback || !errors.Is(res.Reason, ErrPositionUnavailable) {
		tt.Fatalf("expected position fallback, got %+v", res)
	}
	if res.Coordinates != DefaultLocation {
		tt.Errorf("expected Colombo, got %+v", res.Coordinates)
	}
	sent := rec.Sent()
	if len(sent) != 1 || sent[0].Title != "Location Error" {
		tt.Fatalf("unexpected notifications %+v", sent)
	}
	if sent[0].Message != DefaultConfig().ErrorMessage {
		tt.Errorf("unexpected message %q", sent[0].Message)
	}
	if p.positioned != 1 {
		tt.Errorf("expected a single attempt, got %d", p.positioned)
	}
}

func TestResolvePermissionRequestError(tt *testing.T) {
	p := &fakePlatform{requires: true, permErr: errors.New("activity gone")}
	rec := &notify.Recorder{}
	r := NewResolver(p, rec, zaptest.NewLogger(tt).Sugar())

	res := r.Resolve(context.Background(), DefaultConfig())

	if !res.Fallback || !errors.Is(res.Reason, ErrPermissionRequest) {
		tt.Fatalf("expected permission request fallback, got %+v", res)
	}
	if len(rec.Sent()) != 1 {
		tt.Errorf("expected one notification, got %d", len(rec.Sent()))
	}
}

func TestResolveWithoutPermissionStep(tt *testing.T) {
	fix := t.Coordinates{Latitude: 37.33, Longitude: -122.03}
	p := &fakePlatform{requires: false, fix: fix}
	r := NewResolver(p, nil, nil)

	res := r.Resolve(context.Background(), Config{})
	if res.Fallback || res.Coordinates != fix {
		tt.Fatalf("expected real fix, got %+v", res)
	}
	if p.rationale != (Rationale{}) {
		tt.Error("permission should not be requested")
	}
}

func TestConfigWithDefaults(tt *testing.T) {
	c := Config{DeniedMessage: "custom", Timeout: 5 * time.Second}.withDefaults()
	d := DefaultConfig()
	if c.DeniedMessage != "custom" || c.Timeout != 5*time.Second {
		tt.Errorf("overrides lost: %+v", c)
	}
	if c.PermissionMessage != d.PermissionMessage || c.ErrorMessage != d.ErrorMessage {
		tt.Errorf("messages not defaulted: %+v", c)
	}
	if c.DefaultLocation != DefaultLocation || c.MaximumAge != time.Second {
		tt.Errorf("location defaults not applied: %+v", c)
	}
}
