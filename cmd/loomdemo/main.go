// loomdemo is a terminal notes app demonstrating the loom engine: composed
// reducers over a sqlite-backed note list, with modal presentation driven
// through the lifecycle state machine.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/loom"
	"github.com/jask/loom/internal/demo/config"
	"github.com/jask/loom/internal/demo/feature"
	"github.com/jask/loom/internal/demo/notestore"
	"github.com/jask/loom/internal/demo/ui"
	"github.com/jask/loom/present"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "loomdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := notestore.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := notestore.Migrate(db); err != nil {
		return err
	}
	repo := notestore.NewRepo(db)

	opts := present.Options{
		PresentDuration: cfg.UI.PresentDuration(),
		DismissDuration: cfg.UI.DismissDuration(),
		TimeoutFactor:   cfg.UI.TimeoutFactor,
	}
	store := loom.NewStore(feature.NewApp(), feature.NewReducer(repo, opts), loom.NewDeps[any]())
	defer store.Close()
	store.Dispatch(feature.LoadNotes{})

	p := tea.NewProgram(ui.New(store, cfg.UI.Rows), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
