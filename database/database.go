package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/kudiwise/kudicore/currency"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	return &DB{db}, nil
}

// NewFromSQL wraps an existing handle.
func NewFromSQL(sqlDB *sql.DB) *DB {
	return &DB{sqlDB}
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

type ExchangeRate struct {
	Currency  string    `db:"currency"`
	RateToNGN float64   `db:"rate_to_ngn"`
	RateDate  time.Time `db:"rate_date"`
	Source    string    `db:"source"`
}

const createExchangeRates = `
	CREATE TABLE IF NOT EXISTS exchange_rates (
		currency    VARCHAR(3)     NOT NULL,
		rate_date   DATE           NOT NULL,
		rate_to_ngn NUMERIC(18, 6) NOT NULL CHECK (rate_to_ngn > 0),
		source      VARCHAR(32)    NOT NULL,
		updated_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		PRIMARY KEY (currency, rate_date)
	)
`

func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.GetSQLDB().ExecContext(ctx, createExchangeRates); err != nil {
		return errors.Wrap(err, "create exchange_rates")
	}

	return nil
}

// FindExchangeRatesSince returns rates dated on or after since, oldest first.
func (db *DB) FindExchangeRatesSince(ctx context.Context, since time.Time) ([]ExchangeRate, error) {
	var results []ExchangeRate

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT currency, rate_to_ngn, rate_date, source
			FROM exchange_rates
			WHERE rate_date >= $1
			ORDER BY rate_date, currency
		`, since)
	if err != nil {
		return nil, errors.Wrap(err, "query exchange rates")
	}
	defer rows.Close()

	for rows.Next() {
		var r ExchangeRate

		if err := rows.Scan(&r.Currency, &r.RateToNGN, &r.RateDate, &r.Source); err != nil {
			return nil, errors.Wrap(err, "scan exchange rate")
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate exchange rates")
	}

	return results, nil
}

const upsertExchangeRate = `
	INSERT INTO exchange_rates (currency, rate_date, rate_to_ngn, source)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (currency, rate_date)
	DO UPDATE SET rate_to_ngn = EXCLUDED.rate_to_ngn, source = EXCLUDED.source, updated_at = NOW()
`

func (db *DB) UpsertExchangeRate(ctx context.Context, r ExchangeRate) error {
	if _, err := db.GetSQLDB().ExecContext(ctx, upsertExchangeRate, r.Currency, r.RateDate, r.RateToNGN, r.Source); err != nil {
		return errors.Wrapf(err, "upsert %s rate", r.Currency)
	}

	return nil
}

// UpsertExchangeRates writes all rates in one transaction.
func (db *DB) UpsertExchangeRates(ctx context.Context, rates []ExchangeRate) error {
	tx, err := db.GetSQLDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	stmt, err := tx.PrepareContext(ctx, upsertExchangeRate)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "prepare upsert")
	}
	defer stmt.Close()

	for _, r := range rates {
		if _, err := stmt.ExecContext(ctx, r.Currency, r.RateDate, r.RateToNGN, r.Source); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "upsert %s rate", r.Currency)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit exchange rates")
	}

	return nil
}

// FromCurrency converts an engine rate into a row.
func FromCurrency(r currency.ExchangeRate) (ExchangeRate, error) {
	d, err := time.Parse(currency.DateLayout, r.RateDate)
	if err != nil {
		return ExchangeRate{}, errors.Wrapf(err, "parse rate date %q", r.RateDate)
	}

	return ExchangeRate{Currency: r.Currency, RateToNGN: r.RateToNGN, RateDate: d, Source: r.Source}, nil
}

func (r ExchangeRate) ToCurrency() currency.ExchangeRate {
	return currency.ExchangeRate{
		Currency:  r.Currency,
		RateToNGN: r.RateToNGN,
		RateDate:  r.RateDate.Format(currency.DateLayout),
		Source:    r.Source,
	}
}
