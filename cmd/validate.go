package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, sidebars and content without building",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSite(false, "")
		if err != nil {
			return err
		}
		for _, l := range s.Locales {
			docs := 0
			if l.Docs != nil {
				docs = len(l.Docs.All())
			}
			posts := 0
			if l.Blog != nil {
				posts = len(l.Blog.Posts)
			}
			logger.Debug("Locale loaded", "locale", l.ID, "docs", docs, "posts", posts, "pages", len(l.Pages))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Site %q is valid (%d locales)\n", s.Config.Title, len(s.Locales))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
