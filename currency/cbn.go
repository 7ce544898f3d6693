package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const DefaultCBNURL = "https://www.cbn.gov.ng/rates/ExchRateByCurrency"

// StatusError is returned when the CBN endpoint answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Currency   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cbn rate request for %s failed with status %d", e.Currency, e.StatusCode)
}

type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

type CBNOption func(*CBNClient)

func WithBaseURL(u string) CBNOption {
	return func(c *CBNClient) {
		c.baseURL = u
	}
}

func WithTimeout(d time.Duration) CBNOption {
	return func(c *CBNClient) {
		c.httpClient.Timeout = d
	}
}

func WithRetryConfig(rc RetryConfig) CBNOption {
	return func(c *CBNClient) {
		c.retry = rc
	}
}

func WithHTTPClient(hc *http.Client) CBNOption {
	return func(c *CBNClient) {
		c.httpClient = hc
	}
}

func WithClientLogger(l *zap.Logger) CBNOption {
	return func(c *CBNClient) {
		c.log = l
	}
}

// CBNClient fetches official rates from the Central Bank of Nigeria.
type CBNClient struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
	log        *zap.Logger
}

func NewCBNClient(opts ...CBNOption) *CBNClient {
	c := &CBNClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultCBNURL,
		retry:      DefaultRetryConfig(),
		log:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// cbnRate is one row of the CBN response. Rates arrive either as JSON numbers
// or as quoted strings.
type cbnRate struct {
	Currency    string    `json:"currency"`
	RateDate    string    `json:"ratedate"`
	CentralRate flexFloat `json:"centralrate"`
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse rate %q: %w", s, err)
	}

	*f = flexFloat(v)
	return nil
}

func (c *CBNClient) FetchRate(ctx context.Context, currency string) (float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("parse cbn url: %w", err)
	}

	q := u.Query()
	q.Set("curr", currency)
	q.Set("type", "cbn")
	u.RawQuery = q.Encode()

	var rate float64
	operation := func() error {
		r, err := c.fetchOnce(ctx, u.String(), currency)
		if err != nil {
			return err
		}

		rate = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = c.retry.MaxElapsedTime

	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retry.MaxRetries)), ctx))
	if err != nil {
		return 0, err
	}

	c.log.Debug("fetched cbn rate", zap.String("currency", currency), zap.Float64("rate", rate))
	return rate, nil
}

func (c *CBNClient) fetchOnce(ctx context.Context, target, currency string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request cbn rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)

		statusErr := &StatusError{StatusCode: resp.StatusCode, Currency: currency}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return 0, statusErr
		}
		return 0, backoff.Permanent(statusErr)
	}

	var rows []cbnRate
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("decode cbn response: %w", err))
	}

	// rows are newest first
	for _, row := range rows {
		if row.CentralRate > 0 {
			return float64(row.CentralRate), nil
		}
	}

	return 0, backoff.Permanent(fmt.Errorf("no rate for %s in cbn response", currency))
}
