package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"zhkh/internal/core/category"
	"zhkh/internal/core/template"
	perr "zhkh/internal/platform/errors"
)

// DefaultTimeout bounds one remote classification
const DefaultTimeout = 10 * time.Second

// Provider is a language model completion endpoint
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Remote asks a Provider for a JSON verdict and schema-checks the reply
type Remote struct {
	p       Provider
	timeout time.Duration
}

// NewRemote wraps p; timeout <= 0 means DefaultTimeout
func NewRemote(p Provider, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Remote{p: p, timeout: timeout}
}

// Name is the provider name, for logs
func (r *Remote) Name() string { return r.p.Name() }

// Prompt renders the instruction sent to the model
func Prompt(text string) string {
	return "Классифицируй жалобу по категориям (водоснабжение, электричество, отопление, другое) " +
		"и извлеки адрес. Верни ответ в формате JSON: " +
		`{"category": "<категория>", "address": "<адрес>"}` + "\n" +
		"Текст жалобы: " + text
}

// Classify runs one bounded completion
func (r *Remote) Classify(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.p.Complete(ctx, Prompt(text))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		if _, ok := perr.As(err); ok {
			return Result{}, err
		}
		return Result{}, perr.Wrapf(err, perr.ErrorCodeRemote, "%s: completion failed", r.p.Name())
	}
	return ParseReply(reply)
}

type verdict struct {
	Category string          `json:"category"`
	Address  json.RawMessage `json:"address"`
}

// ParseReply pulls the JSON object out of a model reply
// code fences and chatter around the object are tolerated,
// an unknown category becomes Other and a blank address becomes template.NotSpecified
func ParseReply(reply string) (Result, error) {
	body := stripFences(reply)
	if i, j := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}'); i >= 0 && j > i {
		body = body[i : j+1]
	}

	var v verdict
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return Result{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeRemote, "unparsable classifier reply"), opParse)
	}

	res := Result{
		Category: category.Parse(v.Category),
		Address:  template.NotSpecified,
		Strategy: StrategyRemote,
	}
	var addr string
	if len(v.Address) > 0 && json.Unmarshal(v.Address, &addr) == nil {
		if a := strings.TrimSpace(addr); a != "" {
			res.Address = a
		}
	}
	return res, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// language tag such as json
		s = s[nl+1:]
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
