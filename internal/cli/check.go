package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/wakeboard/wakeboard/internal/config"
	"github.com/wakeboard/wakeboard/internal/errors"
	"github.com/wakeboard/wakeboard/internal/logger"
	"github.com/wakeboard/wakeboard/internal/scheduler"
	"github.com/wakeboard/wakeboard/internal/system"
	"github.com/wakeboard/wakeboard/internal/ui"
	"github.com/wakeboard/wakeboard/internal/util"
)

// checkCommand probes every system once and prints the results as a table.
func checkCommand(timeoutFlag string) error {
	cfg, err := config.FindAndLoad(configFlag)
	if err != nil {
		return err
	}

	systems := system.Build(cfg)
	sched := scheduler.New(systems, cfg.RefreshInterval, logger.NewEnvLogger("[check]"))

	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid timeout", timeoutFlag),
				"Try something like 5s, 30s, or 1m")
		}
		sched.SetTimeout(timeout)
	}

	sched.RefreshAll(context.Background())

	snaps := sched.Snapshots()
	rows := make([]table.Row, 0, len(snaps))
	failed := 0
	for _, snap := range snaps {
		rows = append(rows, table.Row{
			stateSymbol(snap.State),
			snap.Name,
			snap.State.String(),
			snap.StateVerbose,
		})
		if snap.State == system.StateFailed {
			failed++
		}
	}

	t := ui.NewTable([]ui.TableColumn{
		{Title: "", Width: 2},
		{Title: "SYSTEM", Width: nameWidth(snaps)},
		{Title: "STATE", Width: 8},
		{Title: "DETAIL", Width: 48},
	}, rows)
	fmt.Println(t.View())

	if failed > 0 {
		return errors.New(errors.ErrProbe,
			fmt.Sprintf("%d of %d %s FAILED", failed, len(snaps),
				util.Pluralize(len(snaps), "system", "systems")),
			"Run 'wakeboard' to wake or inspect them interactively")
	}
	return nil
}

// stateSymbol picks the glyph for a table row, colored only when the
// terminal supports it.
func stateSymbol(s system.State) string {
	var symbol string
	var style lipgloss.Style
	switch s {
	case system.StateOK:
		symbol, style = ui.SymbolSuccess, ui.SuccessStyle
	case system.StateFailed:
		symbol, style = ui.SymbolFail, ui.ErrorStyle
	default:
		symbol, style = ui.SymbolPending, ui.InfoStyle
	}
	if !ui.ColorsEnabled() {
		return symbol
	}
	return style.Render(symbol)
}

// nameWidth sizes the system column to the longest name.
func nameWidth(snaps []system.Snapshot) int {
	width := 8
	for _, s := range snaps {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}
	return width
}
