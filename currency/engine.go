package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kudiwise/kudicore/metrics"
	"github.com/kudiwise/kudicore/tax"
	"go.uber.org/zap"
)

const (
	NGN = "NGN"
	USD = "USD"
	GBP = "GBP"
	EUR = "EUR"

	DateLayout = "2006-01-02"
)

const (
	SourceFixed    = "fixed"
	SourceFallback = "fallback"
	SourceCBN      = "cbn"
)

// FallbackRates are used whenever no rate is cached for a date and whenever a
// live fetch fails.
var FallbackRates = map[string]float64{
	USD: 1550.0,
	GBP: 1950.0,
	EUR: 1680.0,
}

// RefreshCurrencies are fetched by RefreshRates, in order.
var RefreshCurrencies = []string{USD, GBP, EUR}

type ExchangeRate struct {
	Currency  string  `json:"currency" db:"currency"`
	RateToNGN float64 `json:"rate_to_ngn" db:"rate_to_ngn"`
	RateDate  string  `json:"rate_date" db:"rate_date"`
	Source    string  `json:"source" db:"source"`
}

type ConversionResult struct {
	OriginalAmount   float64 `json:"original_amount"`
	OriginalCurrency string  `json:"original_currency"`
	NGNAmount        float64 `json:"ngn_amount"`
	ExchangeRate     float64 `json:"exchange_rate"`
	RateDate         string  `json:"rate_date"`
	Source           string  `json:"source"`
}

type ForexGainLoss struct {
	AcquisitionAmountNGN float64 `json:"acquisition_amount_ngn"`
	DisposalAmountNGN    float64 `json:"disposal_amount_ngn"`
	GainOrLoss           float64 `json:"gain_or_loss"`
	IsGain               bool    `json:"is_gain"`
	IsRealized           bool    `json:"is_realized"`
}

// Leg is one side of a forex position.
type Leg struct {
	Amount   float64
	Currency string
	Date     time.Time
}

// RateFetcher retrieves the current official rate for a currency.
type RateFetcher interface {
	FetchRate(ctx context.Context, currency string) (float64, error)
}

type Option func(*Engine)

func WithFetcher(f RateFetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func WithCache(c *RateCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// Engine converts foreign amounts to Naira. It owns its rate cache.
type Engine struct {
	cache   *RateCache
	fetcher RateFetcher
	now     func() time.Time
	log     *zap.Logger
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache: NewRateCache(),
		now:   time.Now,
		log:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func normalize(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

func (e *Engine) dateKey(date time.Time) string {
	if date.IsZero() {
		date = e.now()
	}

	return date.Format(DateLayout)
}

// Rate returns the cached rate for the date, seeding the cache from
// FallbackRates on a miss. A zero date means today.
func (e *Engine) Rate(currency string, date time.Time) (ExchangeRate, error) {
	currency = normalize(currency)
	key := e.dateKey(date)

	if currency == NGN {
		return ExchangeRate{Currency: NGN, RateToNGN: 1, RateDate: key, Source: SourceFixed}, nil
	}

	if r, ok := e.cache.Get(key, currency); ok {
		return r, nil
	}

	fallback, ok := FallbackRates[currency]
	if !ok {
		return ExchangeRate{}, fmt.Errorf("%w: unsupported currency: %s", tax.ErrInvalidInput, currency)
	}

	r := ExchangeRate{Currency: currency, RateToNGN: fallback, RateDate: key, Source: SourceFallback}
	e.cache.Set(r)

	return r, nil
}

// SetRate overwrites the cached rate for (date, currency).
func (e *Engine) SetRate(currency string, rate float64, date time.Time, source string) (ExchangeRate, error) {
	currency = normalize(currency)

	switch {
	case currency == "":
		return ExchangeRate{}, fmt.Errorf("%w: currency is required", tax.ErrInvalidInput)
	case currency == NGN:
		return ExchangeRate{}, fmt.Errorf("%w: NGN rate is fixed", tax.ErrInvalidInput)
	case rate <= 0:
		return ExchangeRate{}, fmt.Errorf("%w: rate must be positive", tax.ErrInvalidInput)
	}

	if source == "" {
		source = SourceCBN
	}

	r := ExchangeRate{Currency: currency, RateToNGN: rate, RateDate: e.dateKey(date), Source: source}
	e.cache.Set(r)

	return r, nil
}

// Warm loads previously persisted rates into the cache.
func (e *Engine) Warm(rates []ExchangeRate) {
	for _, r := range rates {
		r.Currency = normalize(r.Currency)
		e.cache.Set(r)
	}
}

func (e *Engine) Snapshot() []ExchangeRate {
	return e.cache.Snapshot()
}

func (e *Engine) ConvertToNGN(amount float64, currency string, date time.Time) (ConversionResult, error) {
	if amount < 0 {
		return ConversionResult{}, fmt.Errorf("%w: amount cannot be negative", tax.ErrInvalidInput)
	}

	rate, err := e.Rate(currency, date)
	if err != nil {
		return ConversionResult{}, err
	}

	ngn := amount
	if rate.Currency != NGN {
		ngn = tax.Mul(amount, rate.RateToNGN)
	}

	return ConversionResult{
		OriginalAmount:   amount,
		OriginalCurrency: rate.Currency,
		NGNAmount:        ngn,
		ExchangeRate:     rate.RateToNGN,
		RateDate:         rate.RateDate,
		Source:           rate.Source,
	}, nil
}

// ForexGainLoss values both legs in Naira at their own dates and reports the
// difference. Realisation is supplied by the caller.
func (e *Engine) ForexGainLoss(acquisition, disposal Leg, isRealized bool) (ForexGainLoss, error) {
	acq, err := e.ConvertToNGN(acquisition.Amount, acquisition.Currency, acquisition.Date)
	if err != nil {
		return ForexGainLoss{}, err
	}

	disp, err := e.ConvertToNGN(disposal.Amount, disposal.Currency, disposal.Date)
	if err != nil {
		return ForexGainLoss{}, err
	}

	delta := tax.Sum(disp.NGNAmount, -acq.NGNAmount)

	return ForexGainLoss{
		AcquisitionAmountNGN: acq.NGNAmount,
		DisposalAmountNGN:    disp.NGNAmount,
		GainOrLoss:           delta,
		IsGain:               delta > 0,
		IsRealized:           isRealized,
	}, nil
}

// RefreshRates fetches today's rate for each of RefreshCurrencies. A failed
// fetch never fails the refresh: the static rate is cached with source
// "fallback" instead.
func (e *Engine) RefreshRates(ctx context.Context) []ExchangeRate {
	today := e.now()
	out := make([]ExchangeRate, 0, len(RefreshCurrencies))

	for _, cur := range RefreshCurrencies {
		rate, source := e.fetch(ctx, cur)

		r, err := e.SetRate(cur, rate, today, source)
		if err != nil {
			// a fetcher returning a non-positive rate
			e.log.Warn("discarding fetched rate", zap.String("currency", cur), zap.Float64("rate", rate), zap.Error(err))
			metrics.ExchangeRateFallbacks.WithLabelValues(cur).Inc()
			r, _ = e.SetRate(cur, FallbackRates[cur], today, SourceFallback)
		}

		out = append(out, r)
	}

	return out
}

func (e *Engine) fetch(ctx context.Context, currency string) (float64, string) {
	if e.fetcher == nil {
		metrics.ExchangeRateFallbacks.WithLabelValues(currency).Inc()
		return FallbackRates[currency], SourceFallback
	}

	rate, err := e.fetcher.FetchRate(ctx, currency)
	if err != nil {
		e.log.Warn("rate fetch failed, using fallback", zap.String("currency", currency), zap.Error(err))
		metrics.ExchangeRateFallbacks.WithLabelValues(currency).Inc()
		return FallbackRates[currency], SourceFallback
	}

	return rate, SourceCBN
}

// RunRefresh calls RefreshRates immediately and then every interval until ctx
// is done. onRefresh, when set, receives each refreshed batch.
func (e *Engine) RunRefresh(ctx context.Context, interval time.Duration, onRefresh func(context.Context, []ExchangeRate)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		rates := e.RefreshRates(ctx)
		if onRefresh != nil {
			onRefresh(ctx, rates)
		}

		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
