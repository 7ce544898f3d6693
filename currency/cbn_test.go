package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsedTime:  time.Second,
	}
}

func TestCBNFetchRate(t *testing.T) {
	type TC struct {
		name      string
		status    int
		body      string
		expected  float64
		wantErr   bool
		wantCalls int32
	}

	tcs := []TC{
		{
			name:      "string central rate",
			status:    http.StatusOK,
			body:      `[{"ratedate":"2026-03-13","currency":"US DOLLAR","centralrate":"1,535.80"}]`,
			expected:  1535.80,
			wantCalls: 1,
		},
		{
			name:      "numeric central rate",
			status:    http.StatusOK,
			body:      `[{"currency":"EURO","centralrate":1678.4}]`,
			expected:  1678.4,
			wantCalls: 1,
		},
		{
			name:      "server error is retried then fails",
			status:    http.StatusInternalServerError,
			body:      `oops`,
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name:      "client error is not retried",
			status:    http.StatusNotFound,
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "bad json is not retried",
			status:    http.StatusOK,
			body:      `<html>`,
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "empty list",
			status:    http.StatusOK,
			body:      `[]`,
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, "USD", r.URL.Query().Get("curr"))
				assert.Equal(t, "cbn", r.URL.Query().Get("type"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewCBNClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

			got, err := c.FetchRate(context.Background(), "USD")

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestCBNStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewCBNClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry())).FetchRate(context.Background(), "GBP")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestCBNTimeoutFallsBackInEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewCBNClient(
		WithBaseURL(srv.URL),
		WithTimeout(10*time.Millisecond),
		WithRetryConfig(RetryConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxElapsedTime: time.Second}),
	)
	e := NewEngine(WithClock(fixedClock), WithFetcher(client))

	got := e.RefreshRates(context.Background())

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, SourceFallback, r.Source)
		assert.Equal(t, FallbackRates[r.Currency], r.RateToNGN)
	}
}
