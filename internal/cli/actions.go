package cli

import (
	"context"
	"fmt"

	"github.com/wakeboard/wakeboard/internal/config"
	"github.com/wakeboard/wakeboard/internal/errors"
	"github.com/wakeboard/wakeboard/internal/scheduler"
	"github.com/wakeboard/wakeboard/internal/system"
	"github.com/wakeboard/wakeboard/internal/ui"
	"github.com/wakeboard/wakeboard/internal/util"
)

// consoleNotifier routes action feedback to stdout for one-shot commands.
type consoleNotifier struct{}

func (consoleNotifier) Notify(message string) {
	fmt.Println(ui.InfoStyle.Render("·") + " " + message)
}

func (consoleNotifier) Success(message string) {
	fmt.Println(ui.SuccessStyle.Render(ui.SymbolSuccess) + " " + message)
}

func (consoleNotifier) Warn(message string) {
	fmt.Println(ui.WarningStyle.Render("!") + " " + message)
}

// findSystem loads the config and builds the named system.
func findSystem(name string) (*system.System, error) {
	cfg, err := config.FindAndLoad(configFlag)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Systems))
	for _, sc := range cfg.Systems {
		if sc.Name == name {
			return system.New(sc), nil
		}
		names = append(names, sc.Name)
	}

	return nil, errors.New(errors.ErrConfig,
		fmt.Sprintf("No system named '%s'", name),
		"Configured systems: "+util.JoinOrNone(names))
}

// wakeCommand sends a magic packet to the named system.
func wakeCommand(name string) error {
	sys, err := findSystem(name)
	if err != nil {
		return err
	}

	// A freshly built system is UNKNOWN, so a configured wake action is
	// always offered here.
	action, ok := sys.ActionByName("Wake On LAN")
	if !ok {
		return errors.New(errors.ErrWOL,
			fmt.Sprintf("System '%s' has no wol capability", name),
			"Add a 'wol' section with the machine's MAC address")
	}

	return action.Invoke(consoleNotifier{})
}

// runActionCommand probes the named system, then invokes one of its
// remote actions under the same visibility rules the dashboard applies.
func runActionCommand(name, actionName string, noRefresh bool) error {
	sys, err := findSystem(name)
	if err != nil {
		return err
	}

	if !noRefresh {
		ctx, cancel := context.WithTimeout(context.Background(), scheduler.DefaultProbeTimeout)
		sys.Refresh(ctx)
		cancel()
	}

	action, ok := sys.ActionByName(actionName)
	if !ok {
		snap := sys.Snapshot()
		offered := make([]string, 0)
		for _, a := range sys.Actions() {
			offered = append(offered, "'"+a.Name+"'")
		}
		hint := "No actions are offered in this state"
		if len(offered) > 0 {
			hint = "Offered actions: " + util.JoinOrNone(offered)
		}
		return errors.New(errors.ErrAction,
			fmt.Sprintf("Action '%s' is not available on '%s' (state %s)", actionName, name, snap.State),
			hint)
	}

	return action.Invoke(consoleNotifier{})
}
