package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guidoenr/sortlights/internal/audio"
	"github.com/guidoenr/sortlights/internal/render"
	"github.com/guidoenr/sortlights/internal/sorting"
)

func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the sorting algorithms in playback order",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			hues := sorting.Hues(sorting.Count)
			for i, k := range sorting.Kinds() {
				c := render.HSV(render.Hue(hues[i]), 1, 1)
				r, g, b := c.Clamped().RGB255()
				swatch := color.RGB(int(r), int(g), int(b))
				swatch.Fprint(out, "██")
				fmt.Fprintf(out, " Day %-2d %s\n", k.Day(), k)
			}
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cfg.FileUsed == "" {
				color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "# no config file found, using default values")
			} else {
				color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "# from %s\n", cfg.FileUsed)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio output devices usable with --sound",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := audio.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize PortAudio: %w", err)
			}
			defer audio.Terminate()

			devices, err := audio.ListOutputDevices()
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
			fmt.Printf("\n=== Audio Output Devices ===\n\n")
			for _, dev := range devices {
				name := dev.Name
				if dev.IsDefault {
					name = color.New(color.FgGreen).Sprint(name + " (default)")
				}
				fmt.Printf("- %s [%s]\n    outputs:%d sample:%.0f Hz\n",
					name, dev.HostAPI, dev.Channels, dev.DefaultSampleHz)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sortlights %s\n", version)
		},
	}
}
