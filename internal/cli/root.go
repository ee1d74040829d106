// Package cli wires the cobra command tree. The bare binary starts the
// interactive dashboard; subcommands cover one-shot checks, waking,
// remote actions, and config scaffolding.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wakeboard/wakeboard/internal/config"
	"github.com/wakeboard/wakeboard/internal/dashboard"
	"github.com/wakeboard/wakeboard/internal/errors"
	"github.com/wakeboard/wakeboard/internal/logger"
	"github.com/wakeboard/wakeboard/internal/scheduler"
	"github.com/wakeboard/wakeboard/internal/system"
)

// configFlag is the persistent --config override.
var configFlag string

// rootCmd starts the interactive dashboard.
var rootCmd = &cobra.Command{
	Use:   "wakeboard",
	Short: "Monitor and control systems on your network",
	Long: `wakeboard is a terminal dashboard for the machines on your network.

Each configured system is probed on a fixed cadence (ping or an HTTP
check) and shown as OK, FAILED, or UNKNOWN. Depending on its state a
system offers actions: a Wake-on-LAN magic packet for machines that are
down, and named SSH commands for machines that are up.

Keyboard shortcuts:
  j / down    Select next system
  k / up      Select previous system
  1-9         Run the numbered action on the selected system
  r           Refresh all systems now
  x           Dismiss warnings
  q / Ctrl+C  Quit

Examples:
  wakeboard
  wakeboard --config ~/lab/.wakeboard.yaml
  wakeboard check`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default "+config.ConfigFileName+")")
}

// Execute runs the root command and prints structured errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dashboardCommand loads the config and runs the TUI until quit.
func dashboardCommand() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'wakeboard check' for one-shot output in scripts and pipes")
	}

	cfg, err := config.FindAndLoad(configFlag)
	if err != nil {
		return err
	}

	systems := system.Build(cfg)
	sched := scheduler.New(systems, cfg.RefreshInterval, logger.NewEnvLogger("[scheduler]"))
	sched.Start()
	defer sched.Stop()

	model := dashboard.NewModel(sched, cfg.RenderInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "Dashboard terminated unexpectedly")
	}
	return nil
}
