package gigachat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	perr "zhkh/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oauthServer(t *testing.T, status int, body string, seen *url.Values, rquids *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if seen != nil {
			*seen = r.PostForm
		}
		if rquids != nil {
			*rquids = append(*rquids, r.Header.Get("RqUID"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestToken_MissingCredentials(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { atomic.AddInt32(&hits, 1) }))
	defer srv.Close()

	for _, c := range []Credentials{{}, {ClientID: "id"}, {ClientSecret: "secret"}} {
		c.OAuthURL = srv.URL
		_, err := NewTokenProvider(c, nil).Token(context.Background())
		require.Error(t, err)
		assert.Equal(t, perr.ErrorCodeAuthConfig, perr.CodeOf(err))
	}
	assert.Zero(t, atomic.LoadInt32(&hits), "no network call without credentials")
}

func TestToken_Exchange(t *testing.T) {
	var form url.Values
	var ids []string
	srv := oauthServer(t, http.StatusOK, `{"access_token":"tok-1","expires_at":1706026848841}`, &form, &ids)

	p := NewTokenProvider(Credentials{ClientID: "id", ClientSecret: "secret", OAuthURL: srv.URL}, nil)
	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	assert.Equal(t, "client_credentials", form.Get("grant_type"))
	assert.Equal(t, Scope, form.Get("scope"))
	assert.Equal(t, "id", form.Get("client_id"))
	assert.Equal(t, "secret", form.Get("client_secret"))

	// every call is a fresh exchange with a fresh RqUID
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestToken_Failures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"non 2xx":       {http.StatusUnauthorized, `{"error":"invalid_client"}`},
		"missing token": {http.StatusOK, `{"expires_at":1}`},
		"garbage":       {http.StatusOK, `not json`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			srv := oauthServer(t, c.status, c.body, nil, nil)
			p := NewTokenProvider(Credentials{ClientID: "id", ClientSecret: "s", OAuthURL: srv.URL}, nil)
			_, err := p.Token(context.Background())
			require.Error(t, err)
			assert.Equal(t, perr.ErrorCodeAuthFailure, perr.CodeOf(err))
		})
	}

	p := NewTokenProvider(Credentials{ClientID: "id", ClientSecret: "s", OAuthURL: "http://127.0.0.1:1"}, nil)
	_, err := p.Token(context.Background())
	assert.Equal(t, perr.ErrorCodeAuthFailure, perr.CodeOf(err))
}

type staticToken struct {
	tok string
	err error
}

func (s staticToken) Token(context.Context) (string, error) { return s.tok, s.err }

func TestComplete(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"category\":\"отопление\",\"address\":\"ул. Мира\"}"}}]}`)
	}))
	defer srv.Close()

	c := New(Config{APIURL: srv.URL}, staticToken{tok: "tok-1"}, nil)
	out, err := c.Complete(context.Background(), "промпт")
	require.NoError(t, err)
	assert.Equal(t, `{"category":"отопление","address":"ул. Мира"}`, out)
	assert.Equal(t, "Bearer tok-1", auth)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	assert.Equal(t, []message{{Role: "user", Content: "промпт"}}, got.Messages)
	assert.Equal(t, "gigachat", c.Name())
}

func TestComplete_Failures(t *testing.T) {
	_, err := New(Config{}, staticToken{err: perr.AuthConfigf("nope")}, nil).Complete(context.Background(), "x")
	assert.Equal(t, perr.ErrorCodeAuthConfig, perr.CodeOf(err))

	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "secret prompt echo")
		},
		"empty":   func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `{"choices":[]}`) },
		"garbage": func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `<html>`) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := New(Config{APIURL: srv.URL}, staticToken{tok: "t"}, nil).Complete(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, perr.ErrorCodeRemote, perr.CodeOf(err))
			assert.NotContains(t, err.Error(), "secret prompt echo")
		})
	}

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = New(Config{APIURL: slow.URL}, staticToken{tok: "t"}, nil).Complete(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
