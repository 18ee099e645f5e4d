// Package screen holds the per-screen controllers. A controller resolves a
// location, runs its fetch and exposes the outcome as a render state for
// whatever view layer sits on top.
package screen

import (
	"context"
	"sync"

	"github.com/empite/localfeeds/internal/location"
	t "github.com/empite/localfeeds/internal/types"
	"go.uber.org/zap"
)

type Phase int

const (
	Loading Phase = iota
	Error
	Loaded
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type State[T any] struct {
	Phase      Phase  `json:"phase"`
	Err        string `json:"error,omitempty"`
	Data       T      `json:"data"`
	Refreshing bool   `json:"refreshing"`
}

type LocationResolver interface {
	Resolve(ctx context.Context, cfg location.Config) location.Result
}

type SignOuter interface {
	SignOut(ctx context.Context) error
}

// FetchFunc must not fail; fetchers substitute sample data themselves.
type FetchFunc[T any] func(ctx context.Context, coords t.Coordinates) T

// Controller drives one screen through Loading -> Loaded | Error. Every
// fetch is tagged with a generation and only the newest one may publish
// its result.
type Controller[T any] struct {
	name     string
	resolver LocationResolver
	locCfg   location.Config
	fetch    FetchFunc[T]
	session  SignOuter
	logger   *zap.SugaredLogger

	mu         sync.Mutex
	state      State[T]
	coords     *t.Coordinates
	generation uint64
	listeners  []func(State[T])
}

func New[T any](name string, resolver LocationResolver, locCfg location.Config, fetch FetchFunc[T], session SignOuter, logger *zap.SugaredLogger) *Controller[T] {
	if resolver == nil {
		panic("Missing resolver in " + name + " controller")
	}
	if fetch == nil {
		panic("Missing fetch in " + name + " controller")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Controller[T]{
		name:     name,
		resolver: resolver,
		locCfg:   locCfg,
		fetch:    fetch,
		session:  session,
		logger:   logger.With("screen", name),
		state:    State[T]{Phase: Loading},
	}
}

// Mount resolves the location and loads the screen's data.
func (c *Controller[T]) Mount(ctx context.Context) State[T] {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = State[T]{Phase: Loading}
	c.mu.Unlock()
	c.publish()

	res := c.resolver.Resolve(ctx, c.locCfg)
	if ctx.Err() != nil {
		return c.fail(gen, "Unable to get location")
	}
	if res.Fallback {
		c.logger.Warnw("using fallback location",
			"latitude", res.Coordinates.Latitude, "longitude", res.Coordinates.Longitude, "reason", res.Reason)
	}

	c.mu.Lock()
	if gen != c.generation {
		state := c.state
		c.mu.Unlock()
		return state
	}
	coords := res.Coordinates
	c.coords = &coords
	c.mu.Unlock()

	return c.load(ctx, gen, coords)
}

// Refresh fetches again for the coordinates found by Mount. It does
// nothing until Mount has resolved a location.
func (c *Controller[T]) Refresh(ctx context.Context) State[T] {
	c.mu.Lock()
	if c.coords == nil {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.generation++
	gen := c.generation
	coords := *c.coords
	c.state.Refreshing = true
	c.mu.Unlock()
	c.publish()

	return c.load(ctx, gen, coords)
}

// SignOut never blocks the screen; a failure is only logged.
func (c *Controller[T]) SignOut(ctx context.Context) {
	if c.session == nil {
		return
	}
	if err := c.session.SignOut(ctx); err != nil {
		c.logger.Errorw(err.Error(), "action", "SignOut")
	}
}

func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Coordinates() (t.Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coords == nil {
		return t.Coordinates{}, false
	}
	return *c.coords, true
}

// Subscribe registers fn for every published state.
func (c *Controller[T]) Subscribe(fn func(State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller[T]) load(ctx context.Context, gen uint64, coords t.Coordinates) State[T] {
	data := c.fetch(ctx, coords)

	c.mu.Lock()
	if gen != c.generation {
		state := c.state
		c.mu.Unlock()
		c.logger.Debugw("discarding superseded fetch", "generation", gen)
		return state
	}
	c.state = State[T]{Phase: Loaded, Data: data}
	state := c.state
	c.mu.Unlock()
	c.publish()
	return state
}

func (c *Controller[T]) fail(gen uint64, msg string) State[T] {
	c.mu.Lock()
	if gen != c.generation {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.state = State[T]{Phase: Error, Err: msg}
	state := c.state
	c.mu.Unlock()
	c.publish()
	return state
}

func (c *Controller[T]) publish() {
	c.mu.Lock()
	state := c.state
	listeners := append([]func(State[T]){}, c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		l(state)
	}
}
