package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/app"
	"blogsearch/internal/config"
	"blogsearch/internal/controller"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath, contentDir string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&contentDir, "dir", "", "Content directory to index")
	flag.StringVar(&contentDir, "d", "", "Content directory to index (shorthand)")
	flag.Parse()

	if contentDir == "" && flag.NArg() > 0 {
		contentDir = flag.Arg(0)
	}

	// Set up logging
	logFile, err := os.OpenFile("blogsearch.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Cancelled on interrupt for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	// Surface background activity in the log
	for _, t := range []eventbus.EventType{
		eventbus.EventIndexBuilt,
		eventbus.EventIndexInvalidated,
		eventbus.EventSearchFailed,
		eventbus.EventContentChanged,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			log.Printf("Event %s: %+v", e.Type(), e)
		})
	}

	cfg := loadConfig(config.NewConfigServiceWithBus(bus), configPath)
	if contentDir != "" {
		absDir, err := filepath.Abs(contentDir)
		if err != nil {
			fmt.Printf("Error resolving path: %v\n", err)
			os.Exit(1)
		}
		cfg.Content.Source = config.SourceFS
		cfg.Content.Dir = absDir
	}

	services, err := app.New(ctx, cfg, bus)
	if err != nil {
		fmt.Printf("Error starting: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	if err := services.StartWatcher(ctx); err != nil {
		log.Printf("Content watching disabled: %v", err)
	}

	var uiModel *ui.Model
	ctrl := controller.New(services.Engine, services.History,
		controller.WithDebounce(cfg.Debounce()),
		controller.WithBus(bus),
		controller.WithSelectHandler(func(path string) { uiModel.SelectArticle(path) }),
	)
	defer ctrl.Shutdown()

	uiModel = ui.NewModel(ctrl, cfg, ui.WithCategories(services.Engine.Categories))
	defer uiModel.Unmount()
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Coalesce snapshots: only the newest pending state is worth rendering
	states := make(chan controller.State, 1)
	unsubscribe := ctrl.Subscribe(func(s controller.State) {
		for {
			select {
			case states <- s:
				return
			default:
			}
			select {
			case <-states:
			default:
			}
		}
	})
	defer unsubscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-states:
				p.Send(ui.StateMsg{State: s})
			}
		}
	}()

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadConfig reads the config file, falling back to defaults. The first run
// writes the defaults to the default location.
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	if path != "" {
		cfg, err := configSvc.LoadFromPath(path)
		if err != nil {
			log.Printf("Error loading config: %v", err)
			return config.DefaultConfig()
		}
		return cfg
	}

	_, statErr := os.Stat(config.DefaultPath())
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return config.DefaultConfig()
	}
	if os.IsNotExist(statErr) {
		if err := configSvc.Save(config.DefaultConfig()); err != nil {
			log.Printf("Could not save default config: %v", err)
		}
	}
	return cfg
}
