package main

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/visibility"
)

func newSitesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List and edit observing sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLAT\tLON\tHEIGHT")
			for _, s := range profile.Sites {
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.0f\n", s.Name, s.Latitude, s.Longitude, s.Height)
			}
			return tw.Flush()
		},
	}

	var site visibility.Site
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site.Name = args[0]
			if err := validator.New().Struct(site); err != nil {
				return eris.Wrapf(err, "site %q", site.Name)
			}
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}

			sites := slices.Clone(profile.Sites)
			if i := slices.IndexFunc(sites, func(s visibility.Site) bool { return s.Name == site.Name }); i >= 0 {
				sites[i] = site
			} else {
				sites = append(sites, site)
			}
			if err := config.SaveSites(root.cfg.Dir, sites); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved site %s\n", site.Name)
			return nil
		},
	}
	af := addCmd.Flags()
	af.Float64Var(&site.Latitude, "lat", 0, "latitude in degrees, north positive")
	af.Float64Var(&site.Longitude, "lon", 0, "longitude in degrees, east positive")
	af.Float64Var(&site.Height, "height", 0, "height in metres")
	_ = addCmd.MarkFlagRequired("lat")
	_ = addCmd.MarkFlagRequired("lon")

	removeCmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}
			sites := slices.DeleteFunc(slices.Clone(profile.Sites), func(s visibility.Site) bool { return s.Name == args[0] })
			if len(sites) == len(profile.Sites) {
				return eris.Errorf("no site named %q", args[0])
			}
			if err := config.SaveSites(root.cfg.Dir, sites); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed site %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}

func newWindowsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List and edit visibility window presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMIN ALT\tMAX ALT\tMIN AZ\tMAX AZ")
			for _, name := range profile.WindowNames() {
				b := profile.Windows[name]
				fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\n", name, b.MinAltitude, b.MaxAltitude, b.MinAzimuth, b.MaxAzimuth)
			}
			return tw.Flush()
		},
	}

	bounds := visibility.DefaultBounds()
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a visibility window preset",
		Long: `Add or replace a visibility window preset.

Azimuth bounds are compared as plain numbers: a range across north such as
--min-az 350 --max-az 10 matches nothing. Use two presets instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validator.New().Struct(bounds); err != nil {
				return eris.Wrapf(err, "window %q", name)
			}
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}

			windows := maps.Clone(profile.Windows)
			windows[name] = bounds
			if err := config.SaveWindows(root.cfg.Dir, windows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved window %s\n", name)
			if bounds.MinAzimuth > bounds.MaxAzimuth || bounds.MinAltitude > bounds.MaxAltitude {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: window %s has an inverted range and will match nothing\n", name)
			}
			return nil
		},
	}
	af := addCmd.Flags()
	af.Float64Var(&bounds.MinAltitude, "min-alt", bounds.MinAltitude, "minimum altitude in degrees")
	af.Float64Var(&bounds.MaxAltitude, "max-alt", bounds.MaxAltitude, "maximum altitude in degrees")
	af.Float64Var(&bounds.MinAzimuth, "min-az", bounds.MinAzimuth, "minimum azimuth in degrees, 0 = north")
	af.Float64Var(&bounds.MaxAzimuth, "max-az", bounds.MaxAzimuth, "maximum azimuth in degrees")

	removeCmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a visibility window preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(root.cfg.Dir, root.logger)
			if err != nil {
				return err
			}
			if _, ok := profile.Windows[args[0]]; !ok {
				return eris.Errorf("no window named %q", args[0])
			}
			windows := maps.Clone(profile.Windows)
			delete(windows, args[0])
			if err := config.SaveWindows(root.cfg.Dir, windows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed window %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}
