// ====================================
// File: cmd/sweeper/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/action"
	"github.com/solsweep/dust-sweeper/internal/aggregator"
	"github.com/solsweep/dust-sweeper/internal/config"
	"github.com/solsweep/dust-sweeper/internal/logger"
	"github.com/solsweep/dust-sweeper/internal/pricing"
	"github.com/solsweep/dust-sweeper/internal/retry"
	"github.com/solsweep/dust-sweeper/internal/server"
	"github.com/solsweep/dust-sweeper/internal/sweep"
	solanaledger "github.com/solsweep/dust-sweeper/pkg/blockchain/solana"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Starting dust sweeper action service")

	ledger, err := solanaledger.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		log.Fatal("Failed to create ledger client", zap.Error(err))
	}

	var clientHeaders http.Header
	if cfg.ForwardActionHeaders {
		clientHeaders = action.Headers(cfg.ActionVersion, cfg.BlockchainIDs)
	}

	prices := pricing.NewClient(cfg.PriceEndpoint, log.Logger,
		pricing.WithExtraHeaders(clientHeaders))
	swaps := aggregator.NewClient(cfg.QuoteEndpoint, cfg.SwapEndpoint, log.Logger,
		aggregator.WithExtraHeaders(clientHeaders))

	policy := retry.Policy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
	}

	classifier := sweep.NewClassifier(prices, cfg.DustThreshold, cfg.ThresholdInclusive, policy, log.Logger)
	composer := sweep.NewComposer(swaps, ledger, sweep.ComposerConfig{
		StablecoinMint: cfg.StablecoinMint,
		SlippageBps:    cfg.SlippageBps,
	}, policy, log.Logger)

	tokenProgram := solana.MustPublicKeyFromBase58(cfg.TokenProgramID)
	service := sweep.NewService(ledger, classifier, composer, tokenProgram, policy, log.Logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.New(cfg, service, log.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		log.Info("Listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
