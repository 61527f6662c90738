package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand writes the default config file.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		// The target file usually does not exist yet, so it is not loaded.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			out := newUI(cmd.OutOrStdout())
			out.success("Wrote default config")
			out.file(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand prints the effective configuration with secrets masked.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := c.loader.Used(); used != "" {
				newUI(cmd.OutOrStdout()).detail("# %s", used)
			}
			return config.Encode(cmd.OutOrStdout(), c.cfg.Redacted())
		},
	}
}
