package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cutroom/cutroom-agent/internal/api"
	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/config"
	"github.com/cutroom/cutroom-agent/internal/db"
	"github.com/cutroom/cutroom-agent/internal/logging"
	"github.com/cutroom/cutroom-agent/internal/project"
	"github.com/cutroom/cutroom-agent/internal/session"
	"github.com/cutroom/cutroom-agent/internal/ui"
	"github.com/cutroom/cutroom-agent/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cutroom agent", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	projects := project.NewRepository(database.Conn())
	assets := catalog.NewService(catalog.NewRepository(database.Conn()), logging.WithComponent(logger, "catalog"))

	deviceID, err := ensureDeviceID(projects)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(projects)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                    CUTROOM AGENT v%-8s                ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	preset, err := config.PresetByName(cfg.DefaultPresetName())
	if err != nil {
		return fmt.Errorf("invalid default preset: %w", err)
	}

	sessions := session.NewManager(projects, preset.Output(), logging.WithComponent(logger, "session"))

	apiServer := api.NewServer(api.ServerConfig{
		Port:          cfg.Port(),
		Sessions:      sessions,
		Projects:      projects,
		Assets:        assets,
		DefaultPreset: cfg.DefaultPresetName(),
		Logger:        logger,
		StartTime:     startTime,
		DeviceID:      deviceID,
		Version:       config.Version,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return apiServer.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return watcher.New(assets, logging.WithComponent(logger, "watcher")).Run(gctx)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Assets:   assets,
			Projects: projects,
			Logger:   logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureDeviceID(repo project.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetSetting(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := repo.SetSetting(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(repo project.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetSetting(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetSetting(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
