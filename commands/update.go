package commands

import (
	"errors"
	"fmt"
	"os"

	"folioctl/services"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when an interactive prompt is requested without
// a terminal on stdin.
var ErrNotTerminal = errors.New("interactive mode needs a terminal on stdin")

// Prompter asks for a new value of key, offering current as the default.
type Prompter func(key, current string) (string, error)

func surveyPrompt(key, current string) (string, error) {
	answer := current
	err := survey.AskOne(&survey.Input{Message: key + ":", Default: current}, &answer)
	return answer, err
}

// promptChanges asks for every key and returns only the values that changed.
func promptChanges(prompt Prompter, keys []string, current map[string]any) ([]services.KeyValue, error) {
	var changes []services.KeyValue
	for _, key := range keys {
		cur := ""
		if v, ok := current[key]; ok && v != nil {
			cur = fmt.Sprint(v)
		}
		answer, err := prompt(key, cur)
		if err != nil {
			return nil, err
		}
		if answer != cur {
			changes = append(changes, ParsePairs([]string{key + "=" + answer}, true)...)
		}
	}
	return changes, nil
}

func addPreviewFlags(cmd *cobra.Command, opts *services.UpdateOptions) {
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show the planned change without writing it")
	cmd.Flags().BoolVar(&opts.SideBySide, "side-by-side", false, "Show the dry-run preview as side-by-side panels")
}

func NewUpdateMetadataCommand(deps Deps) *cobra.Command {
	var (
		dir         string
		interactive bool
		opts        services.UpdateOptions
	)
	prompt := Prompter(surveyPrompt)

	cmd := &cobra.Command{
		Use:   "update-metadata [template] key=value [key=value ...]",
		Short: "Set keys in _config.yml",
		Long: `Set keys in _config.yml. The literals true and false become booleans;
every other value is stored as a string.

Examples:
  folioctl gh-page update-metadata title="My Blog" email=me@example.com
  folioctl gh-page update-metadata --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rest, err := resolveTemplate(args, deps.Settings.DefaultTemplate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pairs := ParsePairs(rest, true)

			if interactive {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return ErrNotTerminal
				}
				current, err := deps.Site.ConfigValues(dir, services.ReviewKeys)
				if err != nil {
					return err
				}
				asked, err := promptChanges(prompt, services.ReviewKeys, current)
				if err != nil {
					return err
				}
				pairs = append(pairs, asked...)
				if len(pairs) == 0 {
					fmt.Fprintln(out, "Nothing changed.")
					return nil
				}
			}

			if len(pairs) == 0 {
				fmt.Fprintln(out, "No key=value pairs provided. Example: first_name=John last_name=Doe")
				return nil
			}
			return deps.Site.UpdateMetadata(out, dir, pairs, opts)
		},
	}
	addDirFlag(cmd, &dir, deps.Settings)
	addPreviewFlags(cmd, &opts)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the reviewed settings")
	return cmd
}

func NewUpdateSocialsCommand(deps Deps) *cobra.Command {
	var (
		dir  string
		opts services.UpdateOptions
	)
	cmd := &cobra.Command{
		Use:   "update-socials [template] key=value [key=value ...]",
		Short: "Set or remove entries in _data/socials.yml",
		Long: `Set or remove entries in _data/socials.yml. A value of none, null or
an empty value removes the entry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rest, err := resolveTemplate(args, deps.Settings.DefaultTemplate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pairs := ParsePairs(rest, false)
			if len(pairs) == 0 {
				fmt.Fprintln(out, "No key=value pairs provided.")
				fmt.Fprintln(out, "Example: github_username=rightson x_username=myhandle email=me@example.com")
				fmt.Fprintln(out, "Available keys: github_username, x_username, linkedin_username, email, etc.")
				return nil
			}
			return deps.Site.UpdateSocials(out, dir, pairs, opts)
		},
	}
	addDirFlag(cmd, &dir, deps.Settings)
	addPreviewFlags(cmd, &opts)
	return cmd
}
