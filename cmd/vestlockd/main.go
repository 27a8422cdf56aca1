package main

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/vestlock-labs/vestlock-backend/internal/clock"
	"github.com/vestlock-labs/vestlock-backend/internal/journal"
	journalClickhouse "github.com/vestlock-labs/vestlock-backend/internal/journal/clickhouse"
	"github.com/vestlock-labs/vestlock-backend/internal/ledger"
	"github.com/vestlock-labs/vestlock-backend/internal/metrics"
	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/token"
	"github.com/vestlock-labs/vestlock-backend/internal/transport"
	"go.uber.org/zap"
)

var config struct {
	Addr          string        `long:"addr" env:"VESTLOCKD_ADDR" description:"http listen addr" default:":8000"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"VESTLOCKD_CLICKHOUSE_DSN" description:"ClickHouse DSN for the event journal" default:"clickhouse://localhost:9000/default"`
	FlushSize     int           `long:"journal-flush-size" env:"VESTLOCKD_JOURNAL_FLUSH_SIZE" description:"journal batch size" default:"500"`
	FlushInterval time.Duration `long:"journal-flush-interval" env:"VESTLOCKD_JOURNAL_FLUSH_INTERVAL" description:"journal flush interval" default:"2s"`
	FlushRPS      int           `long:"journal-flush-rps" env:"VESTLOCKD_JOURNAL_FLUSH_RPS" description:"max journal flushes per second" default:"10"`
	VotingVaults  bool          `long:"voting-vaults" env:"VESTLOCKD_VOTING_VAULTS" description:"hold plan custody in per-plan voting vaults"`
	IssuerAccount string        `long:"issuer-account" env:"VESTLOCKD_ISSUER_ACCOUNT" description:"account seeded with the token supply" default:"issuer"`
	IssuerSupply  string        `long:"issuer-supply" env:"VESTLOCKD_ISSUER_SUPPLY" description:"initial balance of the issuer account" default:"1000000000000000000000000"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	supply, ok := new(big.Int).SetString(config.IssuerSupply, 10)
	if !ok {
		logger.Fatal("Invalid issuer supply", zap.String("supply", config.IssuerSupply))
	}

	repo, err := journalClickhouse.NewRepository(config.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		logger.Fatal("Connect to clickhouse", zap.Error(err))
	}
	if err := waitForJournal(ctx, logger, repo); err != nil {
		logger.Fatal("Clickhouse not reachable", zap.Error(err))
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Error("Close clickhouse connection", zap.Error(closeErr))
		}
	}()

	writer, err := journal.NewWriter(
		logger,
		repo,
		metrics.NewJournalWriter(),
		config.FlushSize,
		config.FlushInterval,
		config.FlushRPS,
	)
	if err != nil {
		logger.Fatal("Build journal writer", zap.Error(err))
	}
	writer.Start(ctx)
	defer writer.Stop()

	pool := token.NewPool()
	pool.Mint(model.Account(config.IssuerAccount), supply)

	engine, err := ledger.NewEngine(pool, writer, metrics.NewLedgerEngine(), clock.Wall{}, config.VotingVaults, logger)
	if err != nil {
		logger.Fatal("Build ledger engine", zap.Error(err))
	}

	handler, err := transport.NewHandler(engine, logger)
	if err != nil {
		logger.Fatal("Build transport handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}

func waitForJournal(ctx context.Context, logger *zap.Logger, repo *journalClickhouse.Repository) error {
	const attempts = 10

	var err error
	for i := 0; i < attempts; i++ {
		if err = repo.Ping(ctx); err == nil {
			return nil
		}
		logger.Warn("Clickhouse ping failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		if sleepErr := clock.SleepWithContext(ctx, 2*time.Second); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}
