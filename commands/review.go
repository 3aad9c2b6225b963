package commands

import (
	"github.com/spf13/cobra"
)

func NewReviewConfigCommand(deps Deps) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "review-config [template]",
		Short: "Show the key settings of _config.yml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := resolveTemplate(args, deps.Settings.DefaultTemplate); err != nil {
				return err
			}
			return deps.Site.ReviewConfig(cmd.OutOrStdout(), dir)
		},
	}
	addDirFlag(cmd, &dir, deps.Settings)
	return cmd
}

func NewReviewContentCommand(deps Deps) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "review-content [template]",
		Short: "List the markdown pages, posts and projects of the site",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := resolveTemplate(args, deps.Settings.DefaultTemplate); err != nil {
				return err
			}
			return deps.Site.ReviewContent(cmd.OutOrStdout(), dir)
		},
	}
	addDirFlag(cmd, &dir, deps.Settings)
	return cmd
}
