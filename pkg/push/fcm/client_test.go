package fcm_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"wefund/pkg/push"
	"wefund/pkg/push/fcm"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *fcm.Client {
	return fcm.New(&http.Client{Transport: fn}, "test-key")
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClient_Send_Success(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "key=test-key", r.Header.Get("Authorization"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(b), `"to":"device-1"`)
		require.Contains(t, string(b), `"title":"Hello"`)

		return respond(http.StatusOK, `{"success":1,"failure":0,"results":[{}]}`), nil
	})

	err := client.Send(context.Background(), "device-1", push.Message{
		Title: "Hello",
		Body:  "World",
	})
	require.NoError(t, err)
}

func TestClient_Send_NotRegistered(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`), nil
	})

	err := client.Send(context.Background(), "dead-token", push.Message{Title: "x"})
	require.ErrorIs(t, err, push.ErrInvalidToken)
}

func TestClient_Send_ServerError(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusInternalServerError, "boom"), nil
	})

	err := client.Send(context.Background(), "device-1", push.Message{Title: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
