// Package backend is the HTTP client for the complaints API, used by the bot and the ctl tool
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "zhkh/internal/platform/errors"
	pstrings "zhkh/internal/platform/strings"
	"zhkh/internal/services/complaints/domain"
)

// DefaultBaseURL is where a local zhkh-api listens
const DefaultBaseURL = "http://localhost:8000"

// StatusError is a non-2xx answer from the API
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "backend: status " + strconv.Itoa(e.Code)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is an answer from the API rather than a transport failure
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Client calls the complaints API
type Client struct {
	base string
	http *http.Client
}

// New validates base; a nil hc gets a client with a 30s timeout
func New(base string, hc *http.Client) (*Client, error) {
	base = pstrings.Or(base, DefaultBaseURL)
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "backend: invalid base url %q", base)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}, nil
}

// Submit posts one complaint text
func (c *Client) Submit(ctx context.Context, text string) (domain.Ack, error) {
	var ack domain.Ack
	err := c.do(ctx, http.MethodPost, "/complaint", domain.Submission{Text: text}, &ack)
	return ack, err
}

// List fetches unprocessed complaints by category
func (c *Client) List(ctx context.Context) (domain.Listing, error) {
	l := domain.NewListing()
	if err := c.do(ctx, http.MethodGet, "/complaints", nil, &l); err != nil {
		return nil, err
	}
	return l, nil
}

// MarkProcessed flips one complaint to processed
func (c *Client) MarkProcessed(ctx context.Context, id int64) error {
	var st domain.Status
	return c.do(ctx, http.MethodPost, "/complaint/"+strconv.FormatInt(id, 10)+"/processed", nil, &st)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "backend: %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "backend: read %s", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "backend: decode %s", path)
	}
	return nil
}

// errorMessage pulls the error text out of an envelope or a {"detail"} body
func errorMessage(raw []byte) string {
	var env struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &env) != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Detail
}
