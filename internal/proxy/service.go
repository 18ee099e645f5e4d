package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/empite/localfeeds/internal/common"
	gp "github.com/empite/localfeeds/internal/googleplaces"
	t "github.com/empite/localfeeds/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	PlacesPath     = "/api/places"
	DefaultRadius  = 1500
	placeType      = "restaurant"
	handlerTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 16
)

// Upstream is implemented by googleplaces.Client.
type Upstream interface {
	Configured() bool
	NearbySearch(ctx context.Context, nr gp.NearbyRequest) ([]byte, error)
}

type PlacesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius,omitempty"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type CodeError struct {
	code    int
	msg     string
	details interface{}
}

func (c CodeError) Error() string {
	return c.msg
}

type ServiceOption func(*Service)

func CacheOption(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

type Service struct {
	places Upstream
	cache  Cache

	Logger *zap.SugaredLogger
}

func New(places Upstream, logger *zap.SugaredLogger, opts ...ServiceOption) *Service {
	s := &Service{places: places, Logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.places == nil {
		panic("Missing upstream in places proxy")
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}
	return s
}

func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.Logger))
	r.Use(middleware.Timeout(handlerTimeout))
	r.Use(Cors)

	r.MethodNotAllowed(s.MethodNotAllowedHandler)
	r.Options(PlacesPath, s.PreflightHandler)
	r.Post(PlacesPath, s.PlacesHandler)
	return r
}

func (s *Service) PreflightHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Service) MethodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeError(w, CodeError{code: http.StatusMethodNotAllowed, msg: "Method not allowed"})
}

func (s *Service) PlacesHandler(w http.ResponseWriter, r *http.Request) {
	body, err := s.Places(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, body)
}

// Places validates the request, attaches the server-held key and returns
// the upstream payload unchanged.
func (s *Service) Places(ctx context.Context, r *http.Request) ([]byte, error) {
	req, err := s.parseRequest(r)
	if err != nil {
		return nil, err
	}

	if !s.places.Configured() {
		s.Logger.Errorw("places api key is not configured", "action", "NearbySearch")
		return nil, CodeError{code: http.StatusInternalServerError, msg: "API key not configured on server"}
	}

	coords := t.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	radius := float64(DefaultRadius)
	if req.Radius != nil {
		radius = *req.Radius
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Lookup(ctx, coords, radius)
		if err != nil {
			s.Logger.Errorf("Cache error when looking up places for (%v, %v): %v",
				coords.Latitude, coords.Longitude, err.Error())
		} else if ok {
			return cached, nil
		}
	}

	body, err := s.places.NearbySearch(ctx, gp.NearbyRequest{
		Location: coords,
		Radius:   radius,
		Type:     placeType,
	})
	if err != nil {
		s.Logger.Errorw(err.Error(),
			"latitude", coords.Latitude, "longitude", coords.Longitude, "radius", radius, "action", "NearbySearch")
		return nil, CodeError{
			code:    http.StatusInternalServerError,
			msg:     "Failed to fetch places data",
			details: upstreamDetails(err),
		}
	}

	if s.cache != nil && searchSucceeded(body) {
		if err := s.cache.Store(ctx, coords, radius, body); err != nil {
			s.Logger.Errorf("Cache error when storing places for (%v, %v): %v",
				coords.Latitude, coords.Longitude, err.Error())
		}
	}
	return body, nil
}

// parseRequest treats absent and null coordinates as missing. Zero is a
// real coordinate and passes.
func (s *Service) parseRequest(r *http.Request) (*PlacesRequest, error) {
	missing := CodeError{code: http.StatusBadRequest, msg: "Missing required parameters: latitude and longitude"}

	var req PlacesRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil {
		return nil, missing
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, missing
	}
	return &req, nil
}

func upstreamDetails(err error) interface{} {
	var statusErr *common.StatusError
	if errors.As(err, &statusErr) {
		if json.Valid(statusErr.Body) {
			return json.RawMessage(statusErr.Body)
		}
		if len(statusErr.Body) > 0 {
			return string(statusErr.Body)
		}
	}
	return err.Error()
}

func searchSucceeded(body []byte) bool {
	var resp gp.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Status == "OK"
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	codeErr, ok := err.(CodeError)
	if ok {
		bodyBytes, _ := json.Marshal(ErrorResponse{Error: codeErr.Error(), Details: codeErr.details})
		w.WriteHeader(codeErr.code)
		w.Write(bodyBytes)
	} else {
		bodyBytes, _ := json.Marshal(ErrorResponse{Error: "Internal server error"})
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(bodyBytes)
	}
}

func (s *Service) writeResponse(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
