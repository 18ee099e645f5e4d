package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/empite/localfeeds/internal/session"
)

func identityServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signInWithPassword" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "fbkey" {
			t.Errorf("unexpected key %q", r.URL.Query().Get("key"))
		}
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if !req.ReturnSecureToken {
			t.Error("expected returnSecureToken")
		}
		if req.Password != "correct" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
			return
		}
		w.Write([]byte(`{"localId":"uid-42","email":"` + req.Email + `","displayName":"Jane","idToken":"tok"}`))
	}))
}

func TestSignIn(t *testing.T) {
	ts := identityServer(t)
	defer ts.Close()

	c := New(ApiKeyOption("fbkey"), BaseUrlOption(ts.URL))

	var seen []*session.User
	stop := c.Watch(func(u *session.User) { seen = append(seen, u) })
	defer stop()

	u, err := c.SignIn(context.Background(), "jane@example.com", "correct")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if u.UID != "uid-42" || u.Email != "jane@example.com" || u.DisplayName != "Jane" {
		t.Errorf("unexpected user %+v", u)
	}
	if c.IdToken() != "tok" {
		t.Errorf("expected id token, got %q", c.IdToken())
	}
	if len(seen) != 2 || seen[0] != nil || seen[1].UID != "uid-42" {
		t.Errorf("unexpected watch events %+v", seen)
	}
}

func TestSignInRejected(t *testing.T) {
	ts := identityServer(t)
	defer ts.Close()

	c := New(ApiKeyOption("fbkey"), BaseUrlOption(ts.URL))
	_, err := c.SignIn(context.Background(), "jane@example.com", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Message != "INVALID_PASSWORD" || authErr.Code != 400 {
		t.Errorf("unexpected auth error %+v", authErr)
	}
}

func TestSignOutNotifiesWatchers(t *testing.T) {
	ts := identityServer(t)
	defer ts.Close()

	c := New(ApiKeyOption("fbkey"), BaseUrlOption(ts.URL))
	if _, err := c.SignIn(context.Background(), "jane@example.com", "correct"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	var last *session.User
	calls := 0
	stop := c.Watch(func(u *session.User) { last = u; calls++ })

	if last == nil {
		t.Fatal("watch should start with the current user")
	}
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if last != nil || calls != 2 {
		t.Errorf("expected nil user after sign out, got %+v after %d calls", last, calls)
	}

	stop()
	c.SignOut(context.Background())
	if calls != 2 {
		t.Errorf("stopped watcher was called again")
	}
}

func TestHolderWithFirebase(t *testing.T) {
	ts := identityServer(t)
	defer ts.Close()

	h := session.NewHolder(New(ApiKeyOption("fbkey"), BaseUrlOption(ts.URL)), nil)
	h.Start()
	defer h.Stop()

	if _, err := h.SignIn(context.Background(), "jane@example.com", "correct"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if u, ready := h.User(); !ready || u.UID != "uid-42" {
		t.Errorf("unexpected holder state %+v %v", u, ready)
	}
}
