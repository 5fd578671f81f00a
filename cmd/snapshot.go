package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jerer/cythonwrapper/pkg/action/snapshot"
	"github.com/jerer/cythonwrapper/pkg/config"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var (
		cfg          = &config.Config{}
		manifestPath string
		version      string
	)

	// snapshotCmd represents the cythonwrapper snapshot command
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "version generated wrappers",
	}
	snapshotCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "cythonwrapper.manifest.yaml", "manifest recording snapshot history")

	var takeCmd = &cobra.Command{
		Use:   "take <header>",
		Short: "generate a wrapper and record it in the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg.Header = args[0]
			specs, err := loadSpecializations()
			if err != nil {
				return fmt.Errorf("read specializations: %w", err)
			}
			cfg.Specializations = specs
			cfg.Normalize()

			dump, err := snapshot.Generate(c.Context(), cfg, manifestPath, version)
			if err != nil {
				return err
			}
			slog.Info("snapshot recorded", "module", cfg.ModuleName, "version", version, "file", dump)
			return nil
		},
	}
	takeCmd.Flags().StringVarP(&cfg.OutDir, "output-directory", "o", ".", "directory to write exported artifacts")
	takeCmd.Flags().StringVarP(&cfg.ModuleName, "module-name", "m", "", "extension module name (default: header basename)")
	takeCmd.Flags().StringSliceVarP(&cfg.IncludeDirs, "include-dir", "I", []string{}, "include directories passed to the front end")
	takeCmd.Flags().StringVarP(&version, "snapshot-version", "V", "v1", "version label for this snapshot")

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Snapshots {
				fmt.Printf("%s\t%s\t%s\n", s.Module, s.Version, s.File)
			}
			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the current declaration dump against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				slog.Info("no changes between snapshots")
				return nil
			}
			fmt.Print(diff)
			return nil
		},
	}

	snapshotCmd.AddCommand(takeCmd, listCmd, diffCmd)
	return snapshotCmd
}
