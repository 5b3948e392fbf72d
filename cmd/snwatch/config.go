package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/star/snwatch/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration directory",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write default sites, windows and ignore list if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := config.Bootstrap(root.cfg.Dir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintf(w, "profile already present in %s\n", root.cfg.Dir)
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(w, "created %s\n", path)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *root.cfg
			if cfg.Auth.Token != "" {
				cfg.Auth.Token = "********"
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
