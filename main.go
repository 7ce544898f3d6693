package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/anomaly"
	"github.com/kudiwise/kudicore/config"
	"github.com/kudiwise/kudicore/currency"
	"github.com/kudiwise/kudicore/database"
	"github.com/kudiwise/kudicore/handler"
	"github.com/kudiwise/kudicore/logger"
	"github.com/kudiwise/kudicore/middleware"
	"github.com/kudiwise/kudicore/report"
	"github.com/kudiwise/kudicore/tools"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// rates older than this are not loaded back into the cache on start
const warmWindow = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load(os.Getenv("KUDICORE_CONFIG"))
	if err != nil {
		log.Fatal("Cannot load config: ", err)
	}

	if err := logger.InitLogger(logger.Config{Level: cfg.LogLevel, Stage: cfg.Stage}); err != nil {
		log.Fatal("Cannot init logger: ", err)
	}
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cbn := currency.NewCBNClient(
		currency.WithBaseURL(cfg.CBNRateURL),
		currency.WithTimeout(cfg.RateFetchTimeout),
		currency.WithClientLogger(logger.Log),
	)
	engine := currency.NewEngine(currency.WithFetcher(cbn), currency.WithLogger(logger.Log))

	var store handler.IRateStore
	var db *database.DB

	if cfg.DatabaseURL != "" {
		db, err = openStore(ctx, cfg.DatabaseURL, engine)
		if err != nil {
			logger.Log.Fatal("Cannot connect to database", zap.Error(err))
		}
		defer db.Close()
		store = db
	} else {
		logger.Log.Warn("DATABASE_URL not set, exchange rates will not be persisted")
	}

	go engine.RunRefresh(ctx, cfg.RateRefreshInterval, func(ctx context.Context, rates []currency.ExchangeRate) {
		logger.Log.Info("exchange rates refreshed", zap.Int("count", len(rates)))
		if db != nil {
			persistRates(ctx, db, rates)
		}
	})

	vl := validator.New()

	th := handler.NewTaxHandler(vl, anomaly.New())
	ch := handler.NewCurrencyHandler(vl, engine)
	xh := handler.NewTransactionHandler(vl)
	rh := handler.NewReportHandler(vl, report.NewDefault())
	ah := handler.NewAdminHandler(vl, engine, store)
	toh := handler.NewToolHandler(tools.NewExecutor(vl, engine, tools.WithLogger(logger.Log)))

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst,
		middleware.WithLogger(logger.Log),
		middleware.WithSkipPaths("/", "/metrics"),
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(limiter.Middleware())

	e.GET("/", handler.Healthcheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	t := e.Group("/tax")
	t.POST("/pit/calculate", th.CalculatePIT)
	t.POST("/pit/calculate/upload-csv", th.CalculatePITWithCSV)
	t.GET("/paye/estimate", th.EstimatePAYE)
	t.POST("/cit/calculate", th.CalculateCIT)
	t.POST("/vat/calculate", th.CalculateVAT)
	t.POST("/vat/ledger", th.CalculateVATLedger)
	t.POST("/wht/calculate", th.CalculateWHT)
	t.POST("/wht/batch", th.CalculateWHTBatch)
	t.POST("/scenario", th.RunScenario)
	t.POST("/alerts", th.CheckAlerts)

	e.POST("/transactions/classify", xh.Classify)

	e.POST("/currency/convert", ch.Convert)
	e.POST("/currency/forex", ch.ForexGainLoss)
	e.GET("/currency/rates", ch.Rates)

	e.PUT("/admin/rates/:currency", ah.UpdateRate)

	e.POST("/reports/tax-summary", rh.TaxSummary)
	e.POST("/reports/compliance-checklist", rh.ComplianceChecklist)

	e.GET("/tools", toh.List)
	e.POST("/tools/:name", toh.Execute)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Log.Info("shutting down the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, url string, engine *currency.Engine) (*database.DB, error) {
	db, err := database.NewDB(url)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	rows, err := db.FindExchangeRatesSince(ctx, time.Now().Add(-warmWindow))
	if err != nil {
		db.Close()
		return nil, err
	}

	rates := make([]currency.ExchangeRate, 0, len(rows))
	for _, r := range rows {
		rates = append(rates, r.ToCurrency())
	}
	engine.Warm(rates)

	logger.Log.Info("exchange rates loaded", zap.Int("count", len(rates)))

	return db, nil
}

func persistRates(ctx context.Context, db *database.DB, rates []currency.ExchangeRate) {
	rows := make([]database.ExchangeRate, 0, len(rates))
	for _, r := range rates {
		row, err := database.FromCurrency(r)
		if err != nil {
			logger.Log.Warn("skipping rate", zap.String("currency", r.Currency), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}

	if err := db.UpsertExchangeRates(ctx, rows); err != nil {
		logger.Log.Error("failed to persist exchange rates", zap.Error(err))
	}
}
