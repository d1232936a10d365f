package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/xau_money_management/internal/config"
	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/infrastructure/backend"
	"github.com/vitos/xau_money_management/internal/infrastructure/logger"
	"github.com/vitos/xau_money_management/internal/infrastructure/storage"
	"github.com/vitos/xau_money_management/internal/usecase"
	"github.com/vitos/xau_money_management/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to YAML config")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Service failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// 3. Init Storage
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer store.Close()

	// 4. Init Money Management
	table, err := cfg.MoneyManagement.Table()
	if err != nil {
		return err
	}
	manager := usecase.NewMoneyManager(table, cfg.MoneyManagement.Currency)
	log.Info("Level table loaded",
		zap.Int("levels", table.Len()),
		zap.Float64("max_threshold", table.Last().BalanceThreshold),
	)

	// 5. Init Trading Backend
	tradingBackend := newBackend(cfg, manager, log)

	// 6. Init Services
	interval := time.Duration(cfg.Polling.AccountIntervalMs) * time.Millisecond
	monitor := usecase.NewAccountMonitor(tradingBackend, manager, store, interval, log)
	gate := usecase.NewTradingGate(manager, tradingBackend, cfg.Backend.Symbol, log)

	hub := web.NewHub(log)
	monitor.OnStatus(hub.Broadcast)

	server := web.NewServer(cfg.Server.Port, manager, monitor, gate, store, hub, log)

	// 7. Run until signalled
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return monitor.Run(ctx)
	})
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newBackend(cfg *config.Config, manager *usecase.MoneyManager, log *zap.Logger) domain.TradingBackend {
	if cfg.Backend.Mode == "sim" {
		sim := cfg.Backend.Sim
		walk := usecase.NewRandomWalk(rand.New(rand.NewSource(sim.Seed)), sim.StartPrice, sim.Volatility)
		log.Info("Using simulated backend",
			zap.Float64("start_balance", sim.StartBalance),
			zap.Float64("open_chance", sim.OpenChance),
		)
		simulator := backend.NewSimulator(sim.Login, cfg.Backend.Symbol, sim.StartBalance, walk)
		if sim.OpenChance > 0 {
			simulator.WithAutoTrade(backend.AutoTrade{
				Manager:     manager,
				Rng:         rand.New(rand.NewSource(sim.Seed + 1)),
				OpenChance:  sim.OpenChance,
				CloseChance: sim.CloseChance,
			})
		}
		return simulator
	}
	log.Info("Using MT5 bridge", zap.String("url", cfg.Backend.URL))
	timeout := time.Duration(cfg.Backend.TimeoutMs) * time.Millisecond
	return backend.NewClient(cfg.Backend.URL, cfg.Backend.Token, timeout, log)
}
