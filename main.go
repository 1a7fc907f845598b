package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/agenda/internal/config"
	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
	"github.com/sadopc/agenda/internal/planner"
	"github.com/sadopc/agenda/internal/seed"
	"github.com/sadopc/agenda/internal/store"
	"github.com/sadopc/agenda/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/agenda/config.yaml)")
	dbFlag := flag.String("db", "", "sqlite database path, overrides db_path")
	seedFlag := flag.String("seed", "", `seed source: "embedded", "none", a file or an http(s) URL`)
	flag.Parse()

	if err := run(*configPath, *dbFlag, *seedFlag); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbFlag, seedFlag string) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if seedFlag != "" {
		cfg.Seed = seedFlag
	}

	appLog.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "agenda")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		appLog.SetOutput(f)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return err
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	persisted, err := events.ReadPersisted(s, events.StorageKey)
	if err != nil {
		return fmt.Errorf("load saved events: %w", err)
	}

	src, err := seed.Resolve(cfg.Seed)
	if err != nil {
		return err
	}

	es := events.NewStore(events.NewKVPersister(s, events.StorageKey))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	res := es.LoadFrom(ctx, src, persisted)
	cancel()
	appLog.Info("events loaded", "seed", res.Seeded, "persisted", res.Persisted, "skipped", res.Skipped)

	coord := planner.New(es,
		planner.WithMaxVisible(s.IntSettingOr(store.SettingMaxVisible, cfg.MaxVisible)),
		planner.WithMode(planner.ParseViewMode(s.SettingOr(store.SettingDefaultView, cfg.DefaultView))),
	)

	p := tea.NewProgram(tui.NewApp(coord, s), tea.WithAltScreen())

	if cfg.SeedRefresh != "" && src != nil {
		r, err := seed.NewRefresher(src, cfg.SeedRefresh, func(evs []events.Event, err error) {
			p.Send(tui.SeedRefreshMsg{Events: evs, Err: err})
		})
		if err != nil {
			return err
		}
		r.Start()
		defer r.Stop()
	}

	if res.Degraded() {
		go p.Send(tui.SeedRefreshMsg{Err: res.SeedErr})
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
