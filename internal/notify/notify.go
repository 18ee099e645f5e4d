// Package notify delivers blocking, user-facing messages such as a denied
// location permission or a failed sign in.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Notifier interface {
	Notify(title string, message string)
}

// Func adapts a plain function to a Notifier.
type Func func(title string, message string)

func (f Func) Notify(title string, message string) {
	f(title, message)
}

// Logger writes notifications to a zap logger. It is used by the headless
// client where there is no screen to show an alert on.
type Logger struct {
	Logger *zap.SugaredLogger
}

func (l Logger) Notify(title string, message string) {
	l.Logger.Warnw(message, "title", title, "action", "Notify")
}

type Notification struct {
	Title   string
	Message string
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(title string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Title: title, Message: message})
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
