package classify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"zhkh/internal/core/category"
	"zhkh/internal/core/rules"
	"zhkh/internal/core/template"
	perr "zhkh/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu     sync.Mutex
	reply  string
	err    error
	panics bool
	delay  time.Duration
	calls  int
	prompt string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.prompt = prompt
	s.mu.Unlock()
	if s.panics {
		panic("provider exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

type recorder struct {
	mu        sync.Mutex
	results   []string
	fallbacks []string
}

func (r *recorder) Classified(strategy, cat string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, strategy+":"+cat)
}

func (r *recorder) FellBack(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, reason)
}

func newRules(t *testing.T) *Rules {
	t.Helper()
	p, err := rules.Load()
	require.NoError(t, err)
	return NewRules(p)
}

const (
	leninTap = "Адрес места происшествия: г. Москва, ул. Ленина, 5\nОписание происшествия: течет кран"
	miraPlug = "Адрес: ул. Мира, 10\nОписание: розетка искрит"
)

func TestRules(t *testing.T) {
	r := newRules(t)
	ctx := context.Background()

	res, err := r.Classify(ctx, leninTap)
	require.NoError(t, err)
	assert.Equal(t, Result{Category: category.WaterSupply, Address: "г. Москва, ул. Ленина, 5", Strategy: StrategyRules}, res)

	res, err = r.Classify(ctx, miraPlug)
	require.NoError(t, err)
	assert.Equal(t, category.Electricity, res.Category)
	assert.Equal(t, "ул. Мира, 10", res.Address)

	res, err = r.Classify(ctx, "просто шумно")
	require.NoError(t, err)
	assert.Equal(t, category.Other, res.Category)
	assert.Equal(t, template.NotSpecified, res.Address)
}

func TestRules_OriginalKeywordsOnly(t *testing.T) {
	p, err := rules.Parse([]byte(`version: 1
categories:
  - category: водоснабжение
    keywords: [вода, водопровод, труба, протечка]
  - category: электричество
    keywords: [свет, электричество, розетка, провод]
  - category: отопление
    keywords: [отопление, батарея, тепло, радиатор]
`))
	require.NoError(t, err)

	res, err := NewRules(p).Classify(context.Background(), leninTap)
	require.NoError(t, err)
	assert.Equal(t, category.Other, res.Category)
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "ул. Мира, 10; кв. 5", Address("адрес: ул. Мира, 10; кв. 5\nОписание: x"))
	assert.Equal(t, template.NotSpecified, Address("Адрес:   \nОписание: x"))
	assert.Equal(t, template.NotSpecified, Address("без адреса"))
}

func TestParseReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  Result
	}{
		{"plain", `{"category":"отопление","address":"ул. Мира, 10"}`,
			Result{category.Heating, "ул. Мира, 10", StrategyRemote}},
		{"fenced", "```json\n{\"category\": \"водоснабжение\", \"address\": \"г. Москва\"}\n```",
			Result{category.WaterSupply, "г. Москва", StrategyRemote}},
		{"chatter", `Вот ответ: {"category":"электричество","address":" ул. Мира "} надеюсь помог`,
			Result{category.Electricity, "ул. Мира", StrategyRemote}},
		{"unknown category", `{"category":"газ","address":"ул. Мира"}`,
			Result{category.Other, "ул. Мира", StrategyRemote}},
		{"missing address", `{"category":"отопление"}`,
			Result{category.Heating, template.NotSpecified, StrategyRemote}},
		{"non string address", `{"category":"отопление","address":null}`,
			Result{category.Heating, template.NotSpecified, StrategyRemote}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseReply(c.reply)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	_, err := ParseReply("не знаю")
	require.Error(t, err)
	assert.Equal(t, ReasonParse, Reason(err))
	assert.Equal(t, perr.ErrorCodeRemote, perr.CodeOf(err))
}

func TestRemote(t *testing.T) {
	p := &stubProvider{reply: `{"category":"водоснабжение","address":"г. Москва, ул. Ленина, 5"}`}
	r := NewRemote(p, 0)
	assert.Equal(t, DefaultTimeout, r.timeout)
	assert.Equal(t, "stub", r.Name())

	res, err := r.Classify(context.Background(), leninTap)
	require.NoError(t, err)
	assert.Equal(t, category.WaterSupply, res.Category)
	assert.Contains(t, p.prompt, "Текст жалобы: "+leninTap)
	assert.Contains(t, p.prompt, `{"category": "<категория>", "address": "<адрес>"}`)

	p = &stubProvider{err: errors.New("connection reset")}
	_, err = NewRemote(p, time.Second).Classify(context.Background(), "x")
	assert.Equal(t, perr.ErrorCodeRemote, perr.CodeOf(err))
	assert.Equal(t, ReasonRemote, Reason(err))

	p = &stubProvider{err: perr.AuthConfigf("missing credentials")}
	_, err = NewRemote(p, time.Second).Classify(context.Background(), "x")
	assert.Equal(t, ReasonAuthConfig, Reason(err))

	p = &stubProvider{delay: time.Second}
	_, err = NewRemote(p, 10*time.Millisecond).Classify(context.Background(), "x")
	assert.Equal(t, ReasonTimeout, Reason(err))
}

func TestLimited_DeniesWithoutQueueing(t *testing.T) {
	p := &stubProvider{reply: `{"category":"отопление","address":"x"}`}
	c := NewLimited(NewRemote(p, time.Second), 0.001, 1)

	_, err := c.Classify(context.Background(), "a")
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Classify(context.Background(), "b")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, ReasonRateLimited, Reason(err))
	assert.Equal(t, 1, p.calls)

	assert.Nil(t, NewLimited(nil, 0, 0))
}

func TestCached(t *testing.T) {
	p := &stubProvider{reply: `{"category":"отопление","address":"x"}`}
	c := NewCached(NewRemote(p, time.Second), 8)

	first, err := c.Classify(context.Background(), "холодно")
	require.NoError(t, err)
	assert.Equal(t, StrategyRemote, first.Strategy)

	second, err := c.Classify(context.Background(), "холодно")
	require.NoError(t, err)
	assert.Equal(t, StrategyCache, second.Strategy)
	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, c.(*Cached).Len())

	p.err = errors.New("down")
	_, err = c.Classify(context.Background(), "другой текст")
	require.Error(t, err)
	assert.Equal(t, 1, c.(*Cached).Len(), "errors are not cached")

	r := newRules(t)
	assert.Equal(t, Classifier(r), NewCached(r, 0))
}

func TestFallback_NeverErrors(t *testing.T) {
	r := newRules(t)

	cases := []struct {
		name   string
		p      *stubProvider
		reason string
	}{
		{"remote error", &stubProvider{err: errors.New("503")}, ReasonRemote},
		{"auth failure", &stubProvider{err: perr.AuthFailuref("token rejected")}, ReasonAuthFailure},
		{"garbage", &stubProvider{reply: "<html>"}, ReasonParse},
		{"panic", &stubProvider{panics: true}, ReasonPanic},
		{"timeout", &stubProvider{delay: time.Second}, ReasonTimeout},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := &recorder{}
			f := NewFallback(NewRemote(c.p, 20*time.Millisecond), r, WithObserver(rec))

			res, err := f.Classify(context.Background(), miraPlug)
			require.NoError(t, err)
			assert.Equal(t, Result{Category: category.Electricity, Address: "ул. Мира, 10", Strategy: StrategyRules}, res)
			assert.Equal(t, []string{c.reason}, rec.fallbacks)
			assert.Equal(t, []string{"rules:электричество"}, rec.results)
		})
	}
}

func TestFallback_SecondaryFailureStillAnswers(t *testing.T) {
	boom := Func(func(context.Context, string) (Result, error) { panic("both down") })
	res, err := NewFallback(boom, boom).Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, category.Other, res.Category)
	assert.Equal(t, template.NotSpecified, res.Address)
}

func TestCompose(t *testing.T) {
	r := newRules(t)

	// remote stubbed to water-supply wins over the rules verdict
	p := &stubProvider{reply: `{"category":"водоснабжение","address":"г. Москва, ул. Ленина, 5"}`}
	rec := &recorder{}
	c := Compose(p, r, Options{Timeout: time.Second, CacheSize: 4, Observer: rec})

	res, err := c.Classify(context.Background(), miraPlug)
	require.NoError(t, err)
	assert.Equal(t, category.WaterSupply, res.Category)
	assert.Equal(t, StrategyRemote, res.Strategy)

	res, _ = c.Classify(context.Background(), miraPlug)
	assert.Equal(t, StrategyCache, res.Strategy)
	assert.Equal(t, 1, p.calls)

	rulesOnly := Compose(nil, r, Options{Observer: rec})
	res, err = rulesOnly.Classify(context.Background(), miraPlug)
	require.NoError(t, err)
	assert.Equal(t, category.Electricity, res.Category)
	assert.Empty(t, rec.fallbacks)
}
