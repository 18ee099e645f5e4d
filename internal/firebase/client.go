package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/empite/localfeeds/internal/common"
	"github.com/empite/localfeeds/internal/session"
)

const DefaultBaseUrl = "https://identitytoolkit.googleapis.com/v1"

// AuthError carries the Identity Toolkit error code, e.g. INVALID_PASSWORD.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalId      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IdToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type ClientOption func(*Client)

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

// Client implements session.Provider with the Identity Toolkit REST api.
// The session only lives in memory.
type Client struct {
	apiKey  string
	baseUrl string
	hc      *http.Client

	mu       sync.Mutex
	user     *session.User
	idToken  string
	watchers map[int]func(*session.User)
	nextId   int
}

func New(opts ...ClientOption) *Client {
	c := &Client{
		baseUrl:  DefaultBaseUrl,
		hc:       &http.Client{Timeout: 10 * time.Second},
		watchers: map[int]func(*session.User){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		panic("Missing apikey in firebase client")
	}
	return c
}

func (c *Client) SignIn(ctx context.Context, email string, password string) (*session.User, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("error encoding sign in request: %w", err)
	}

	reqUrl := fmt.Sprintf("%v/accounts:signInWithPassword?key=%v", c.baseUrl, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqUrl, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign in request: %w", common.Redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := common.Do(c.hc, req, "firebase")
	if err != nil {
		var statusErr *common.StatusError
		if errors.As(err, &statusErr) {
			var e errorResponse
			if json.Unmarshal(statusErr.Body, &e) == nil && e.Error.Message != "" {
				return nil, &AuthError{Code: e.Error.Code, Message: e.Error.Message}
			}
		}
		return nil, err
	}

	var resp signInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from firebase: %w", err)
	}

	u := &session.User{UID: resp.LocalId, Email: resp.Email, DisplayName: resp.DisplayName}
	c.set(u, resp.IdToken)
	return u, nil
}

func (c *Client) SignOut(_ context.Context) error {
	c.set(nil, "")
	return nil
}

func (c *Client) Watch(fn func(*session.User)) func() {
	c.mu.Lock()
	id := c.nextId
	c.nextId++
	c.watchers[id] = fn
	current := c.user
	c.mu.Unlock()

	fn(current)
	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// IdToken returns the token of the signed in user, or "".
func (c *Client) IdToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idToken
}

func (c *Client) set(u *session.User, idToken string) {
	c.mu.Lock()
	c.user = u
	c.idToken = idToken
	fns := make([]func(*session.User), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
