package commands

import (
	"folioctl/templates"

	"github.com/spf13/cobra"
)

func NewInitCommand(deps Deps) *cobra.Command {
	var opts templates.Options
	cmd := &cobra.Command{
		Use:   "init [template]",
		Short: "Create a new site repository from a theme template",
		Long: `
Clone a theme template, drop its history and commit it as a new repository
with origin pointing at your GitHub Pages remote.

Examples:
  folioctl gh-page init
  folioctl gh-page init al-folio --dir site --branch main --bundle`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := resolveTemplate(args, deps.Settings.DefaultTemplate)
			if err != nil {
				return err
			}
			return deps.Initializer.Run(cmd.Context(), cmd.OutOrStdout(), t, opts)
		},
	}
	cmd.Flags().StringVar(&opts.TargetDir, "dir", deps.Settings.DefaultTargetDir, "Target directory")
	cmd.Flags().StringVar(&opts.Remote, "remote", "", "Git remote URL (default from GIT_REMOTE)")
	cmd.Flags().StringVar(&opts.Branch, "branch", deps.Settings.DefaultBranch, "Branch name")
	cmd.Flags().BoolVar(&opts.Bundle, "bundle", false, "Run bundle install after creating the site")
	return cmd
}
