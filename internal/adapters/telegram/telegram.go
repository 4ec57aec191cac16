// Package telegram is a minimal Bot API client: long polling and sendMessage
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perr "zhkh/internal/platform/errors"
	pstrings "zhkh/internal/platform/strings"
)

// DefaultBaseURL is the public Bot API host
const DefaultBaseURL = "https://api.telegram.org"

// ParseModeHTML enables the <b> and <code> tags the templates use
const ParseModeHTML = "HTML"

// Update is one getUpdates entry; only text messages are decoded
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from,omitempty"`
	Text      string `json:"text"`
}

// Chat identifies where to reply
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// User is the sender
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

// Client talks to one bot
type Client struct {
	token string
	base  string
	http  *http.Client
}

// New builds a client; base "" means DefaultBaseURL
func New(token, base string, hc *http.Client) (*Client, error) {
	if token == "" {
		return nil, perr.AuthConfigf("telegram: TELEGRAM_TOKEN must be set")
	}
	base = pstrings.Or(base, DefaultBaseURL)
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{token: token, base: base, http: hc}, nil
}

// GetUpdates long polls for updates after offset, holding the request up to wait
func (c *Client) GetUpdates(ctx context.Context, offset int64, wait time.Duration) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(wait / time.Second),
		"allowed_updates": []string{"message"},
	}
	var out []Update
	if err := c.call(ctx, "getUpdates", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage replies in chatID using HTML parse mode
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               ParseModeHTML,
		"disable_web_page_preview": true,
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: encode %s: %w", method, err)
	}
	// the token is part of the path, so transport errors never echo the url
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/bot"+c.token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return perr.Newf(perr.ErrorCodeUnavailable, "telegram: %s request failed", method)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeRemote, "telegram: decode %s (status %d)", method, resp.StatusCode)
	}
	if !env.OK {
		code := perr.ErrorCodeRemote
		switch env.ErrorCode {
		case http.StatusUnauthorized, http.StatusNotFound:
			code = perr.ErrorCodeAuthConfig
		case http.StatusTooManyRequests:
			code = perr.ErrorCodeTooManyRequests
		}
		return perr.Newf(code, "telegram: %s: %d %s", method, env.ErrorCode, env.Description)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeRemote, "telegram: decode %s result", method)
	}
	return nil
}
