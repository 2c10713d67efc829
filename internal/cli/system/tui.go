package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/kv"
	"github.com/julianstephens/circles/internal/kv/sqlite"
	"github.com/julianstephens/circles/internal/logger"
	"github.com/julianstephens/circles/internal/tui"
	"github.com/julianstephens/circles/internal/watcher"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(ctx.Ctx)
	defer cancel()

	if path, ok := watchPath(ctx.Backend); ok && ctx.Watch {
		w := watcher.New(path, ctx.Store, constants.WatchDebounce)
		if err := w.Start(runCtx); err != nil {
			logger.Warn("File watching disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	p := tea.NewProgram(tui.NewModel(runCtx, ctx.Store), tea.WithAltScreen(), tea.WithContext(runCtx))
	// Mutations made from Update notify on the event loop goroutine, where a
	// blocking Send would deadlock.
	unsubscribe := ctx.Store.Subscribe(func() { go p.Send(tui.StoreChangedMsg{}) })
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return ctx.Flush()
}

// watchPath returns the database file of backends another process can
// write to behind our back.
func watchPath(backend kv.Provider) (string, bool) {
	switch b := backend.(type) {
	case *sqlite.Store:
		return b.GetConfigPath(), b.GetConfigPath() != constants.MemoryConfigPath
	case *kv.FileStore:
		return b.GetConfigPath(), true
	}
	return "", false
}
