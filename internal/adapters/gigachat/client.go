package gigachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	perr "zhkh/internal/platform/errors"
)

const (
	// DefaultAPIURL is the chat completions endpoint
	DefaultAPIURL = "https://gigachat.devices.sberbank.ru/api/v2/chat/completions"

	// DefaultModel is the model the prompt was tuned on
	DefaultModel = "GigaChat-Pro"

	maxTokens = 200
)

// Tokener yields a bearer token per call
type Tokener interface {
	Token(ctx context.Context) (string, error)
}

// Config for the completion client
type Config struct {
	APIURL string
	Model  string
}

// Client is a classify.Provider backed by GigaChat
type Client struct {
	tokens Tokener
	http   *http.Client
	url    string
	model  string
}

// New builds a client; hc nil means http.DefaultClient, deadlines come from ctx
func New(cfg Config, tokens Tokener, hc *http.Client) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{tokens: tokens, http: hc, url: cfg.APIURL, model: cfg.Model}
}

// Name implements classify.Provider
func (c *Client) Name() string { return "gigachat" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first choice
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeRemote, "gigachat: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeRemote, "gigachat: build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeRemote, "gigachat: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the body may echo the prompt, keep it out of errors
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", perr.Remotef("gigachat: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeRemote, "gigachat: decode response")
	}
	if len(out.Choices) == 0 {
		return "", perr.Remotef("gigachat: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

// String is for logs
func (c *Client) String() string { return fmt.Sprintf("gigachat(%s)", c.model) }
