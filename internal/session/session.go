// Package session keeps the signed-in user for the lifetime of the app.
//
// A Holder subscribes to its Provider once, on Start, and unsubscribes on
// Stop. Controllers receive the Holder explicitly instead of reaching for
// process-wide state.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrSocialSignInUnavailable = errors.New("social sign in is temporarily unavailable")

type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Provider is the identity backend. Watch must call fn with the current
// user right away and again on every change, and return a function that
// ends the subscription.
type Provider interface {
	SignIn(ctx context.Context, email string, password string) (*User, error)
	SignOut(ctx context.Context) error
	Watch(fn func(*User)) (stop func())
}

type Holder struct {
	provider Provider
	logger   *zap.SugaredLogger

	mu        sync.RWMutex
	user      *User
	ready     bool
	watching  bool
	stop      func()
	listeners []func(*User)
}

func NewHolder(provider Provider, logger *zap.SugaredLogger) *Holder {
	if provider == nil {
		panic("Missing provider in session holder")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Holder{provider: provider, logger: logger}
}

// Start subscribes to the provider. Calling it twice is a no-op.
func (h *Holder) Start() {
	h.mu.Lock()
	if h.watching {
		h.mu.Unlock()
		return
	}
	h.watching = true
	h.mu.Unlock()

	stop := h.provider.Watch(h.observe)

	h.mu.Lock()
	if !h.watching {
		// Stop ran while Watch was in progress
		h.mu.Unlock()
		stop()
		return
	}
	h.stop = stop
	h.mu.Unlock()
}

// Stop ends the subscription. Events delivered afterwards are dropped.
func (h *Holder) Stop() {
	h.mu.Lock()
	stop := h.stop
	h.watching = false
	h.stop = nil
	h.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (h *Holder) observe(u *User) {
	h.mu.Lock()
	if !h.watching {
		h.mu.Unlock()
		return
	}
	h.setLocked(u)
	listeners := append([]func(*User){}, h.listeners...)
	h.mu.Unlock()

	for _, l := range listeners {
		l(u)
	}
}

// User returns the current user. ready is false until the provider has
// reported for the first time.
func (h *Holder) User() (user *User, ready bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user, h.ready
}

// OnChange registers fn for every later session change.
func (h *Holder) OnChange(fn func(*User)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *Holder) SignIn(ctx context.Context, email string, password string) (*User, error) {
	u, err := h.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.setLocked(u)
	h.mu.Unlock()
	h.logger.Infow("signed in", "uid", u.UID)
	return u, nil
}

func (h *Holder) SignOut(ctx context.Context) error {
	if err := h.provider.SignOut(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.setLocked(nil)
	h.mu.Unlock()
	return nil
}

func (h *Holder) SignInWithFacebook(_ context.Context) error {
	return ErrSocialSignInUnavailable
}

func (h *Holder) setLocked(u *User) {
	if u != nil {
		copied := *u
		u = &copied
	}
	h.user = u
	h.ready = true
}
