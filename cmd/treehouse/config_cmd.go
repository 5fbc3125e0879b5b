package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/treehouse/internal/config"
)

func (s *session) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		// Replaces the root setup so init works with a broken file.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}
	cmd.AddCommand(s.newConfigInitCommand(), s.newConfigShowCommand())
	return cmd
}

// path returns the config file the session reads.
func (s *session) path() string {
	if s.configPath != "" {
		return s.configPath
	}
	return config.ConfigPath()
}

func (s *session) newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := s.path()
			if !config.IsFirstRun(path) && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return fmt.Errorf("failed to write config %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func (s *session) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.setup(); err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), s.cfg)
		},
	}
}
