package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/wakeboard/wakeboard/internal/config"
	"github.com/wakeboard/wakeboard/internal/errors"
	"github.com/wakeboard/wakeboard/internal/probe"
	"github.com/wakeboard/wakeboard/internal/ui"
	"github.com/wakeboard/wakeboard/internal/wol"
)

// scaffold mirrors the config schema with string durations so the
// generated YAML reads "15s" instead of nanosecond integers.
type scaffold struct {
	RefreshInterval string           `yaml:"refresh_interval"`
	RenderInterval  string           `yaml:"render_interval"`
	Systems         []scaffoldSystem `yaml:"systems"`
}

type scaffoldSystem struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Ping        *config.PingCheck `yaml:"ping,omitempty"`
	HTTP        *config.HTTPCheck `yaml:"http,omitempty"`
	WOL         *config.Wake      `yaml:"wol,omitempty"`
	SSH         *scaffoldRemote   `yaml:"ssh,omitempty"`
}

type scaffoldRemote struct {
	Host    string                `yaml:"host"`
	User    string                `yaml:"user,omitempty"`
	Actions []config.RemoteAction `yaml:"actions"`
}

// initCommand creates a new .wakeboard.yaml in the current directory.
func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var (
		name      string
		checkType string
		target    string
		mac       string
		sshHost   string
		sshUser   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("System name").
				Description("How this machine appears on the dashboard").
				Placeholder("NAS").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("system name is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Health check").
				Description("How to decide whether the system is up").
				Options(
					huh.NewOption("Ping (ICMP echo)", "ping"),
					huh.NewOption("HTTP (HEAD request)", "http"),
				).
				Value(&checkType),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target").
				Description("Host/IP for ping, full URL for http").
				Placeholder("10.0.0.5 or https://10.0.0.7:3000").
				Value(&target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("target is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("MAC address (optional)").
				Description("Enables the Wake-on-LAN action").
				Placeholder("AA:BB:CC:DD:EE:FF").
				Value(&mac).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := wol.ParseHardwareAddr(s); err != nil {
						return fmt.Errorf("use six hex octets, e.g. AA:BB:CC:DD:EE:FF")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SSH host (optional)").
				Description("Enables remote actions; leave empty to skip").
				Placeholder("10.0.0.5 or a ~/.ssh/config alias").
				Value(&sshHost),
			huh.NewInput().
				Title("SSH user").
				Placeholder("admin (empty uses ~/.ssh/config or $USER)").
				Value(&sshUser),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility")
	}

	testReachability(checkType, target)

	sc := scaffoldSystem{Name: strings.TrimSpace(name)}
	if checkType == "http" {
		sc.HTTP = &config.HTTPCheck{URL: strings.TrimSpace(target), ExpectedStatus: 200}
	} else {
		sc.Ping = &config.PingCheck{Host: strings.TrimSpace(target)}
	}
	if strings.TrimSpace(mac) != "" {
		sc.WOL = &config.Wake{MAC: strings.TrimSpace(mac)}
	}
	if strings.TrimSpace(sshHost) != "" {
		sc.SSH = &scaffoldRemote{
			Host: strings.TrimSpace(sshHost),
			User: strings.TrimSpace(sshUser),
			Actions: []config.RemoteAction{
				{Name: "Shutdown", Run: "sudo poweroff"},
			},
		}
	}

	data, err := yaml.Marshal(scaffold{
		RefreshInterval: config.DefaultRefreshInterval.String(),
		RenderInterval:  config.DefaultRenderInterval.String(),
		Systems:         []scaffoldSystem{sc},
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# wakeboard configuration
# Run 'wakeboard' for the dashboard or 'wakeboard check' for a one-shot probe.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SuccessStyle.Render(ui.SymbolSuccess), configPath)
	fmt.Println("Next steps:")
	fmt.Println("  wakeboard check  - Probe all systems once")
	fmt.Println("  wakeboard        - Start the dashboard")

	return nil
}

// testReachability probes the new target once so typos surface before
// the config is saved. A failure is advisory; the config is written
// either way since the machine may simply be asleep.
func testReachability(checkType, target string) {
	spinner := ui.NewSpinner("Testing " + target)
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok := false
	if checkType == "http" {
		outcome := probe.NewHTTPProber(200, true).Probe(ctx, target)
		ok = outcome.Status == probe.StatusOK
	} else {
		result, err := (&probe.Pinger{}).Probe(ctx, target)
		ok = err == nil && result.OK
	}

	if ok {
		spinner.Success()
	} else {
		spinner.Fail()
		fmt.Println(ui.MutedStyle.Render("  (unreachable right now; saving anyway)"))
	}
	fmt.Println()
}
