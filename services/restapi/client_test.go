package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerjeasy/letusconnect/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestClient(url string) *Client {
	conf := &core.Config{}
	conf.Backend.BaseURL = url
	conf.Backend.Timeout = 2 * time.Second
	conf.Backend.MaxRetries = 2
	c := NewClient(conf, nopLogger{})
	c.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestClient_Do(t *testing.T) {
	var gotAuth, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		switch r.URL.Path {
		case "/api/users/register":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"tok"}`))
		case "/api/faqs/1":
			w.WriteHeader(http.StatusNoContent)
		case "/api/taken":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Email already in use"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<html>bad request</html>`))
		}
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)
	ctx := context.Background()

	t.Run("post decodes the response", func(t *testing.T) {
		var out struct{ Token string }
		err := c.Do(ctx, core.APIRequest{Method: http.MethodPost, Path: "/api/users/register", Body: map[string]string{"email": "ada@example.com"}}, &out)
		require.NoError(t, err)
		assert.Equal(t, "tok", out.Token)
		assert.JSONEq(t, `{"email":"ada@example.com"}`, gotBody)
		assert.Equal(t, "application/json", gotType)
		assert.Empty(t, gotAuth)
	})

	t.Run("bearer token attached even when empty", func(t *testing.T) {
		require.NoError(t, c.Do(ctx, core.APIRequest{Method: http.MethodDelete, Path: "/api/faqs/1", Auth: true, Token: ""}, nil))
		assert.True(t, strings.HasPrefix(gotAuth, "Bearer"), gotAuth)

		require.NoError(t, c.Do(ctx, core.APIRequest{Method: http.MethodDelete, Path: "/api/faqs/1", Auth: true, Token: "tok"}, nil))
		assert.Equal(t, "Bearer tok", gotAuth)
	})

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantMessage string
	}{
		{name: "error shape", path: "/api/taken", wantStatus: http.StatusConflict, wantMessage: "Email already in use"},
		{name: "shape absent", path: "/api/other", wantStatus: http.StatusBadRequest, wantMessage: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Do(ctx, core.APIRequest{Method: http.MethodPost, Path: tt.path}, nil)
			var reqErr *core.RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.wantStatus, reqErr.Status)
			assert.Equal(t, tt.wantMessage, reqErr.Message)
		})
	}
}

func TestClient_Do_retries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "1"}})
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	t.Run("get is retried", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		var out []map[string]string
		require.NoError(t, c.Do(context.Background(), core.APIRequest{Method: http.MethodGet, Path: "/api/faqs"}, &out))
		assert.Len(t, out, 1)
		assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	})

	t.Run("post is sent once", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		err := c.Do(context.Background(), core.APIRequest{Method: http.MethodPost, Path: "/api/faqs"}, nil)
		var reqErr *core.RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, http.StatusBadGateway, reqErr.Status)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

func TestClient_Do_transportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestClient(url).Do(context.Background(), core.APIRequest{Method: http.MethodPost, Path: "/api/faqs"}, nil)
	var reqErr *core.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.Status)
	assert.Empty(t, reqErr.Message)
	assert.Equal(t, "Failed. Retry.", reqErr.MessageOr("Failed. Retry."))
}
