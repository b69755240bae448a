package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/gateway/local"
	"github.com/khata-app/khata/internal/gateway/remote"
	"github.com/khata-app/khata/internal/service"
	"github.com/khata-app/khata/internal/store"
	"github.com/khata-app/khata/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if _, statErr := os.Stat(config.Path()); os.IsNotExist(statErr) {
		// first run: write the defaults so users have a file to edit
		if saveErr := config.Save(cfg); saveErr != nil {
			log.Printf("write default config: %v", saveErr)
		}
	}

	var (
		auth      gateway.Auth
		newLedger func(*gateway.Session) (*service.Ledger, error)
	)

	switch cfg.Backend.Mode {
	case "remote":
		client := remote.NewClient(cfg.Backend.RemoteURL, cfg.Backend.APIKey)
		remoteAuth := remote.NewAuth(client)
		auth = remoteAuth
		newLedger = func(*gateway.Session) (*service.Ledger, error) {
			return &service.Ledger{Gateway: remote.NewStore(client, remoteAuth), Store: store.New()}, nil
		}

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Backend.LocalPath), 0o755); err != nil {
			log.Fatalf("mkdir db dir: %v", err)
		}
		db, err := local.Open(cfg.Backend.LocalPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer db.Close()
		auth = local.NewAuth(db)
		newLedger = func(s *gateway.Session) (*service.Ledger, error) {
			return &service.Ledger{Gateway: local.NewStore(db, s.UserID), Store: store.New()}, nil
		}
	}

	p := tea.NewProgram(tui.New(ctx, cfg, auth, newLedger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
