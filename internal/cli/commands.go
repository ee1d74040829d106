package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wakeboard/wakeboard/internal/errors"
)

// Command-specific flags
var (
	initForce    bool
	runNoRefresh bool
	checkTimeout string
)

// checkCmd probes every system once and prints a table.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe all systems once and print their states",
	Long: `Probe every configured system once, print a state table, and exit.

The exit code is non-zero when any system is FAILED, which makes the
command usable from cron or shell scripts.

Examples:
  wakeboard check
  wakeboard check --timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkCommand(checkTimeout)
	},
}

// wakeCmd sends a magic packet to one system.
var wakeCmd = &cobra.Command{
	Use:   "wake <system>",
	Short: "Send a Wake-on-LAN magic packet to a system",
	Long: `Send a Wake-on-LAN magic packet to the named system without
starting the dashboard.

Examples:
  wakeboard wake NAS`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wakeCommand(args[0])
	},
}

// runCmd invokes a named remote action on one system.
var runCmd = &cobra.Command{
	Use:   "run <system> <action>",
	Short: "Run a configured action on a system",
	Long: `Run one of a system's configured SSH actions without starting
the dashboard.

The system is probed first so state-dependent action rules apply the
same way they do on the dashboard; --no-refresh skips the probe.

Examples:
  wakeboard run NAS "Restart smbd"
  wakeboard run NAS Shutdown --no-refresh`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runActionCommand(args[0], args[1], runNoRefresh)
	},
}

// initCmd creates a new .wakeboard.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .wakeboard.yaml configuration",
	Long: `Initialize a new wakeboard configuration file.

Creates a .wakeboard.yaml in the current directory and guides you
through the first system with interactive prompts.

Examples:
  wakeboard init
  wakeboard init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for wakeboard.

Examples:
  # Bash
  wakeboard completion bash > /etc/bash_completion.d/wakeboard

  # Zsh
  wakeboard completion zsh > "${fpath[1]}/_wakeboard"

  # Fish
  wakeboard completion fish > ~/.config/fish/completions/wakeboard.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkTimeout, "timeout", "", "per-system probe timeout (e.g., 5s, 30s)")

	runCmd.Flags().BoolVar(&runNoRefresh, "no-refresh", false, "skip the probe before running the action")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
