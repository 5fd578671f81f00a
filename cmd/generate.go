package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"

	"github.com/jerer/cythonwrapper/internal/export"
	"github.com/jerer/cythonwrapper/pkg/action/generate"
	"github.com/jerer/cythonwrapper/pkg/config"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	cfg := &config.Config{}

	// generateCmd represents the cythonwrapper generate command
	var generateCmd = &cobra.Command{
		Use:   "generate <header>",
		Short: "parse a C++ header and export its declaration tree",
		Long:  "Parse a C++ header, expand registered template specializations and write the declaration tree and import headers for the renderer",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg.Header = args[0]
			specs, err := loadSpecializations()
			if err != nil {
				return fmt.Errorf("read specializations: %w", err)
			}
			cfg.Specializations = specs
			cfg.Normalize()

			res, err := generate.Run(c.Context(), cfg)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				slog.Warn(w)
			}
			slog.Info("wrapper exported",
				"module", cfg.ModuleName,
				"declarations", summarize(res.Document),
				"files", res.Files,
			)
			return nil
		},
	}
	generateCmd.PersistentFlags().StringVarP(&cfg.OutDir, "output-directory", "o", ".", "directory to write exported artifacts")
	generateCmd.PersistentFlags().StringVarP(&cfg.ModuleName, "module-name", "m", "", "extension module name (default: header basename)")
	generateCmd.PersistentFlags().StringSliceVarP(&cfg.IncludeDirs, "include-dir", "I", []string{}, "include directories passed to the front end")
	generateCmd.PersistentFlags().StringSliceVarP(&cfg.ExtraFlags, "extra-flag", "f", []string{}, "extra flags passed to the front end")

	return generateCmd
}

// summarize renders "2 classes, 1 function, 3 enums" from the exported
// declaration list.
func summarize(doc *export.Document) string {
	counts := map[string]int{}
	var order []string
	for _, d := range doc.Declarations {
		if counts[d.Kind] == 0 {
			order = append(order, d.Kind)
		}
		counts[d.Kind]++
	}

	if len(order) == 0 {
		return "no declarations"
	}
	parts := make([]string, 0, len(order))
	for _, kind := range order {
		n := counts[kind]
		noun := kind
		if n != 1 {
			noun = inflection.Plural(kind)
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, noun))
	}
	return strings.Join(parts, ", ")
}
