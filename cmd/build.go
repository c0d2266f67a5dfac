package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ink-kai/inkworld/generator"
	"github.com/ink-kai/inkworld/metrics"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static version of the site",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		drafts, _ := cmd.Flags().GetBool("drafts")
		if !filepath.IsAbs(out) {
			out = filepath.Join(siteRoot, out)
		}

		s, err := loadSite(drafts, "")
		if err != nil {
			return err
		}
		report, err := generator.Build(cmd.Context(), s, out, generator.Options{Metrics: metrics.New()})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d pages (%d files) in %s\n", len(report.Pages), report.Files+report.StaticFiles, out)
		if n := len(report.BrokenLinks); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d broken links reported\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "build", "Output directory, relative to the site root")
	buildCmd.Flags().Bool("drafts", false, "Include draft docs and posts")
}
