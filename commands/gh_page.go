package commands

import (
	"fmt"
	"strings"

	"folioctl/services"
	"folioctl/templates"

	"github.com/spf13/cobra"
)

// ServiceGhPage is the name of the GitHub Pages service command.
const ServiceGhPage = "gh-page"

// Deps bundles what the gh-page actions need.
type Deps struct {
	Settings    services.Settings
	Site        *services.SiteService
	Initializer *templates.Initializer
}

// NewGhPageCommand returns the gh-page service command with one subcommand
// per enabled action.
func NewGhPageCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ServiceGhPage + " <action> [template] [key=value ...]",
		Short: "Bootstrap and maintain a GitHub Pages site",
		Long: `Bootstrap and maintain a personal GitHub Pages site built on a theme template.

Examples:
  folioctl gh-page init --dir site --branch main --bundle
  folioctl gh-page review-config
  folioctl gh-page review-content
  folioctl gh-page update-metadata title="My Blog" enable_darkmode=true
  folioctl gh-page update-socials github_username=rightson x_username=none
  folioctl gh-page push -m "Update about page"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "help" {
				return cmd.Help()
			}
			_ = cmd.Usage()
			return fmt.Errorf("unknown action %q for %q", args[0], ServiceGhPage)
		},
	}

	constructors := map[string]func(Deps) *cobra.Command{
		services.ActionInit:           NewInitCommand,
		services.ActionReviewConfig:   NewReviewConfigCommand,
		services.ActionReviewContent:  NewReviewContentCommand,
		services.ActionUpdateMetadata: NewUpdateMetadataCommand,
		services.ActionUpdateSocials:  NewUpdateSocialsCommand,
		services.ActionPush:           NewPushCommand,
	}
	for _, action := range services.AllActions {
		if deps.Settings.ActionEnabled(action) {
			cmd.AddCommand(constructors[action](deps))
		}
	}
	return cmd
}

// splitTarget separates the optional leading template name from the
// remaining tokens. The first token is a template name when it is not a
// key=value pair.
func splitTarget(args []string, fallback string) (string, []string) {
	if len(args) > 0 && !strings.Contains(args[0], "=") {
		return args[0], args[1:]
	}
	return fallback, args
}

// resolveTemplate looks up the template named by the leading token of args.
func resolveTemplate(args []string, fallback string) (*templates.Template, []string, error) {
	name, rest := splitTarget(args, fallback)
	t, err := templates.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return t, rest, nil
}

// ParsePairs turns key=value tokens into ordered changes. Tokens without "="
// or with an empty key are ignored. With coerceBool, the literals true and
// false (any case) become booleans; every other value stays a string.
func ParsePairs(tokens []string, coerceBool bool) []services.KeyValue {
	var pairs []services.KeyValue
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			continue
		}
		var v any = value
		if coerceBool {
			switch strings.ToLower(value) {
			case "true":
				v = true
			case "false":
				v = false
			}
		}
		pairs = append(pairs, services.KeyValue{Key: key, Value: v})
	}
	return pairs
}

func addDirFlag(cmd *cobra.Command, dir *string, settings services.Settings) {
	cmd.Flags().StringVar(dir, "dir", settings.DefaultTargetDir, "Site directory")
}
