package common

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// StatusError is returned when an api answers with a non-2xx status.
type StatusError struct {
	Name string
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error code %v returned from %v", e.Code, e.Name)
}

// Do executes req once and returns the body of a 2xx response. Transport
// errors are stripped of the request url, since several apis carry their
// key in the query string.
func Do(client *http.Client, req *http.Request, name string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error on %v api request: %w", name, Redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %v response body: %w", name, Redact(err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Name: name, Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

// Redact drops the url from a *url.Error and keeps the underlying cause.
func Redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
