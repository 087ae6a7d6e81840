package commands

import (
	"fmt"

	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration after defaults, the config file, environment
variables and flags have been applied. The output is YAML and can be saved
as opskit.yaml; use -o json for JSON.`,
		Example: `  # Start a config file from the current settings
  opskit config > opskit.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd)
		},
	}
}

func runConfig(cmd *cobra.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}

	if r.Mode() == output.ModeJSON {
		return r.JSON(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if file := config.GetConfigFileUsed(); file != "" {
		r.Printf("# loaded from %s\n", file)
	}
	r.Printf("%s", data)
	return nil
}
