// eatnsplit-tui is the terminal front end of the shared-expense ledger.
//
// Usage:
//
//	eatnsplit-tui [flags]
//
// Flags:
//
//	--server  Base URL of a running eatnsplit server. Without it the ledger
//	          runs in-process and starts from the demo roster.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/eatnsplit/internal/config"
	"github.com/mmynk/eatnsplit/internal/ledger"
	"github.com/mmynk/eatnsplit/internal/service"
	"github.com/mmynk/eatnsplit/internal/storage/memory"
	"github.com/mmynk/eatnsplit/internal/tui"
	"github.com/mmynk/eatnsplit/pkg/logging"
)

func main() {
	serverURL := flag.String("server", "", "Base URL of an eatnsplit server (e.g. http://localhost:8080)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.Log.File, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetupWriter(logOut, logging.ParseLevel(cfg.Log.Level))

	ctx := context.Background()

	var l tui.Ledger
	if *serverURL != "" {
		l = tui.NewRemote(service.NewLedgerServiceClient(http.DefaultClient, *serverURL))
	} else {
		coord := ledger.New(memory.New(), ledger.UUIDGenerator)
		if err := coord.Seed(ctx, ledger.DemoRoster(cfg.Ledger.DefaultImage)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed friends: %v\n", err)
			os.Exit(1)
		}
		l = tui.NewLocal(coord)
	}

	p := tea.NewProgram(tui.New(ctx, l, cfg.Ledger.DefaultImage), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
