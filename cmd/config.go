package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/lockfiles/internal/configs"
	"github.com/PolarWolf314/lockfiles/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configInitForce bool
	configShowJSON  bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage lockfiles configuration",
		Long: `Provides commands for managing the defaults used by lockfiles.

The configuration file is read from --config, $LOCKFILES_CONFIG or
lockfiles/config.toml in your user config directory, in that order.

Examples:
  # Write a configuration file with the built-in defaults
  lockfiles config init

  # Show the configuration lockfiles would use
  lockfiles config show`,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting config init command")

			path := configs.ConfigPath(configPath)
			if path == "" {
				return Logger.ErrorfAndReturn("cannot determine the user config directory, use %s", ui.Flag.Sprint("--config"))
			}
			Logger.Debugf("Config path: %s", path)

			if _, err := os.Stat(path); err == nil && !configInitForce {
				fmt.Println(ui.Warning.Sprint("⚠") + " Configuration already exists at " + ui.Path.Sprint(path))
				fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to replace it")
				return nil
			}

			if err := configs.SaveConfig(path, configs.DefaultConfig()); err != nil {
				return Logger.ErrorfAndReturn("%v", err)
			}

			fmt.Println(ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(path))
			return nil
		},
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting config show command")

			path := configs.ConfigPath(configPath)
			Logger.Debugf("Loading config from %s", path)

			cfg, err := configs.LoadConfig(path)
			if err != nil {
				return err
			}

			if configShowJSON {
				output, err := json.MarshalIndent(cfg.Defaults, "", "  ")
				if err != nil {
					return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
				}
				fmt.Println(string(output))
				return nil
			}

			source := path
			if _, err := os.Stat(path); path == "" || err != nil {
				source = "built-in defaults"
			}

			d := cfg.Defaults
			fmt.Println(ui.Info.Sprint("Configuration") + " " + ui.Muted.Sprint(source) + ":")
			fmt.Println()
			fmt.Printf("  %-18s %s\n", "suffix:", ui.Highlight.Sprint(d.Suffix))
			fmt.Printf("  %-18s %t\n", "overwrite:", d.Overwrite)
			fmt.Printf("  %-18s %t\n", "continue_on_error:", d.ContinueOnError)
			fmt.Printf("  %-18s %t\n", "recurse:", d.Recurse)
			fmt.Printf("  %-18s %s\n", "key_scheme:", d.KeyScheme)
			fmt.Printf("  %-18s %s\n", "password_file:", orNone(d.PasswordFile))
			fmt.Printf("  %-18s %s\n", "audit_log:", orNone(d.AuditLog))
			return nil
		},
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "replace an existing configuration file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func orNone(s string) string {
	if s == "" {
		return ui.Muted.Sprint("none")
	}
	return ui.Path.Sprint(s)
}

// resetConfigState resets the config command flags for testing.
func resetConfigState() {
	configInitForce = false
	configShowJSON = false
	for _, c := range []*cobra.Command{configInitCmd, configShowCmd} {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}
