package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/repops/repops/internal/config"
	"github.com/repops/repops/internal/log"
	"github.com/repops/repops/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage settings",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage repops settings.

Settings file: ~/.config/repops/config.toml
Environment:   REPOPS_CONFIG (repos file), REPOPS_REMOTE`,
		Example: `  repops config init      # Create default settings
  repops config show      # Show effective settings`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default settings file",
		Args:  cobra.NoArgs,
		Example: `  repops config init       # Create ~/.config/repops/config.toml
  repops config init -f    # Overwrite existing settings
  repops config init -s    # Print settings to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				output.FromContext(cmd.Context()).Print(config.DefaultSettingsTOML())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing settings")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print settings to stdout")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		Long:  `Show the settings after applying the settings file and environment overrides.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			s := *settings
			path, err := s.ReposPath(configPath)
			if err != nil {
				return err
			}
			s.ReposFile = path

			if jsonOutput {
				return out.JSON(s)
			}
			if err := toml.NewEncoder(out.Writer()).Encode(s); err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
