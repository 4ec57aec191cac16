// Package gemini is a classify.Provider over the Gemini API
package gemini

import (
	"context"
	"strings"

	perr "zhkh/internal/platform/errors"

	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty
const DefaultModel = "gemini-2.5-flash"

// Config for the Gemini provider
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint, tests point it at httptest
	BaseURL string
}

// Client wraps genai.Client
type Client struct {
	cli   *genai.Client
	model string
}

// New fails with an auth config error when the key is missing
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, perr.AuthConfigf("gemini: GEMINI_API_KEY must be set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeAuthConfig, "gemini: create client")
	}
	return &Client{cli: cli, model: cfg.Model}, nil
}

// Name implements classify.Provider
func (c *Client) Name() string { return "gemini" }

// Complete asks for a JSON reply and returns the text of the first candidate
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeRemote, "gemini: generate content")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", perr.Remotef("gemini: empty candidates")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	if b.Len() == 0 {
		return "", perr.Remotef("gemini: empty reply")
	}
	return b.String(), nil
}
