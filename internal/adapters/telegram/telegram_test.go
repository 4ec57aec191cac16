package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "zhkh/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("", "", nil)
	assert.Equal(t, perr.ErrorCodeAuthConfig, perr.CodeOf(err))
}

func TestGetUpdates_And_SendMessage(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		switch r.URL.Path {
		case "/botT0K/getUpdates":
			assert.EqualValues(t, 7, in["offset"])
			assert.EqualValues(t, 25, in["timeout"])
			_, _ = io.WriteString(w, `{"ok":true,"result":[
				{"update_id":7,"message":{"message_id":1,"chat":{"id":42,"type":"private"},"text":"/start"}},
				{"update_id":8}
			]}`)
		case "/botT0K/sendMessage":
			sent = in
			_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":2}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}))
	defer srv.Close()

	c, err := New("T0K", srv.URL, nil)
	require.NoError(t, err)

	ups, err := c.GetUpdates(context.Background(), 7, 25*time.Second)
	require.NoError(t, err)
	require.Len(t, ups, 2)
	assert.Equal(t, int64(42), ups[0].Message.Chat.ID)
	assert.Equal(t, "/start", ups[0].Message.Text)
	assert.Nil(t, ups[1].Message)

	require.NoError(t, c.SendMessage(context.Background(), 42, "<b>привет</b>"))
	assert.EqualValues(t, 42, sent["chat_id"])
	assert.Equal(t, "<b>привет</b>", sent["text"])
	assert.Equal(t, ParseModeHTML, sent["parse_mode"])
}

func TestCall_Errors(t *testing.T) {
	cases := map[string]struct {
		body string
		code perr.ErrorCode
	}{
		"bad token":  {`{"ok":false,"error_code":401,"description":"Unauthorized"}`, perr.ErrorCodeAuthConfig},
		"flood":      {`{"ok":false,"error_code":429,"description":"Too Many Requests"}`, perr.ErrorCodeTooManyRequests},
		"bad chat":   {`{"ok":false,"error_code":400,"description":"chat not found"}`, perr.ErrorCodeRemote},
		"not json":   {`<html>`, perr.ErrorCodeRemote},
		"bad result": {`{"ok":true,"result":{"not":"a list"}}`, perr.ErrorCodeRemote},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c, err := New("T0K", srv.URL, nil)
			require.NoError(t, err)
			_, err = c.GetUpdates(context.Background(), 0, 0)
			require.Error(t, err)
			assert.Equal(t, tc.code, perr.CodeOf(err))
		})
	}
}

func TestCall_TransportErrorHidesToken(t *testing.T) {
	c, err := New("SECRET", "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	err = c.SendMessage(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	assert.NotContains(t, err.Error(), "SECRET")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.SendMessage(ctx, 1, "x"), context.Canceled)
}
