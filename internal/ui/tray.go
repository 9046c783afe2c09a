// Package ui hosts the system tray menu for the agent.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/project"
)

type Tray struct {
	assets   catalog.Service
	projects project.Repository
	logger   *slog.Logger

	statusItem   *systray.MenuItem
	projectsItem *systray.MenuItem
	assetsItem   *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Assets   catalog.Service
	Projects project.Repository
	Logger   *slog.Logger
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		assets:   cfg.Assets,
		projects: cfg.Projects,
		logger:   cfg.Logger,
		onQuit:   cfg.OnQuit,
	}
}

// Run blocks until the tray exits. Must run on the main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Cutroom")
	systray.SetTooltip("Cutroom Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.projectsItem = systray.AddMenuItem("Projects: 0", "Open projects")
	t.projectsItem.Disable()

	t.assetsItem = systray.AddMenuItem("Assets: 0", "Cataloged media files")
	t.assetsItem.Disable()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Cutroom Agent")

	go func() {
		for range quitItem.ClickedCh {
			t.logger.Info("quit requested from tray")
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
			return
		}
	}()

	go t.refreshLoop()

	t.logger.Info("system tray ready")
}

// refreshLoop keeps the menu counters in sync for the agent's lifetime.
func (t *Tray) refreshLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for ; ; <-ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		projects, err := t.projects.ListProjects(ctx)
		if err != nil {
			cancel()
			continue
		}
		assets, err := t.assets.CountAssets(ctx)
		cancel()
		if err != nil {
			continue
		}
		t.UpdateCounts(len(projects), assets)
	}
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateCounts(projects, assets int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.projectsItem.SetTitle(fmt.Sprintf("Projects: %d", projects))
	t.assetsItem.SetTitle(fmt.Sprintf("Assets: %d", assets))
}

func (t *Tray) Quit() {
	systray.Quit()
}
