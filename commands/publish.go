package commands

import (
	"github.com/spf13/cobra"
)

func NewPushCommand(deps Deps) *cobra.Command {
	var (
		dir     string
		message string
	)
	cmd := &cobra.Command{
		Use:   "push [template]",
		Short: "Commit pending changes and push the site to origin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := resolveTemplate(args, deps.Settings.DefaultTemplate); err != nil {
				return err
			}
			return deps.Site.Push(cmd.Context(), cmd.OutOrStdout(), dir, message)
		},
	}
	addDirFlag(cmd, &dir, deps.Settings)
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message (default \"Update site content\")")
	return cmd
}
