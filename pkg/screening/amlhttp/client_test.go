package amlhttp_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"wefund/pkg/domain"
	"wefund/pkg/screening"
	"wefund/pkg/screening/amlhttp"
	"wefund/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *amlhttp.Client {
	return amlhttp.New(&http.Client{Transport: fn}, "https://aml.example.com/", "test-key")
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClient_Screen_Success(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "https://aml.example.com/v1/screen", r.URL.String())
		require.Equal(t, "test-key", r.Header.Get("Api-Key"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(b), `"full_name":"Jane Doe"`)
		require.Contains(t, string(b), `"level":"enhanced"`)

		return respond(http.StatusOK,
			`{"risk_level":"low","sanctions_match":false,"pep_match":false,"recommendation":"approve"}`), nil
	})

	result, err := client.Screen(context.Background(), screening.Request{
		FullName: "Jane Doe",
		Level:    domain.ScreeningLevelEnhanced,
	})
	require.NoError(t, err)
	require.Equal(t, "low", result.RiskLevel)
	require.Equal(t, "approve", result.Recommendation)
	require.False(t, result.SanctionsMatch)
}

func TestClient_Screen_RateLimited(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusTooManyRequests, "slow down"), nil
	})

	_, err := client.Screen(context.Background(), screening.Request{FullName: "x"})
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestClient_Screen_ServerError(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusBadGateway, "upstream down"), nil
	})

	_, err := client.Screen(context.Background(), screening.Request{FullName: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "upstream down")
}
