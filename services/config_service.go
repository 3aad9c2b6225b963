package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultEnvFile is the local settings file read at startup when present.
const DefaultEnvFile = ".env"

// Action names that can be switched on or off through ENABLED_ACTIONS.
const (
	ActionInit           = "init"
	ActionReviewConfig   = "review-config"
	ActionReviewContent  = "review-content"
	ActionUpdateMetadata = "update-metadata"
	ActionUpdateSocials  = "update-socials"
	ActionPush           = "push"
)

// AllActions lists every action in the order they are shown in help output.
var AllActions = []string{
	ActionInit,
	ActionReviewConfig,
	ActionReviewContent,
	ActionUpdateMetadata,
	ActionUpdateSocials,
	ActionPush,
}

// Settings is the process-wide configuration. It is built once by
// LoadSettings and handed to every operation by value.
type Settings struct {
	GitHubUsername   string
	PagesRepo        string
	PagesURL         string
	GitRemote        string
	AuthorName       string
	AuthorEmail      string
	DefaultBranch    string
	DefaultTargetDir string
	DefaultTemplate  string
	EnabledActions   []string
}

var settingDefaults = map[string]string{
	"github_username":    "rightson",
	"github_pages_repo":  "rightson.github.io",
	"github_pages_url":   "https://rightson.github.io",
	"git_remote":         "git@github.com:rightson/rightson.github.io.git",
	"author_name":        "Rightson",
	"author_email":       "",
	"default_branch":     "main",
	"default_target_dir": "rightson.github.io",
	"default_template":   "al-folio",
	"enabled_actions":    strings.Join(AllActions, ","),
}

// LoadSettings reads the optional dotenv file at envFile, then resolves each
// setting from the environment with hard-coded fallbacks. Variables already
// present in the environment take precedence over the file.
func LoadSettings(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("failed to load settings file %s: %w", envFile, err)
			}
			log.Debug().Str("file", envFile).Msg("no settings file, using environment only")
		} else {
			log.Debug().Str("file", envFile).Msg("loaded settings file")
		}
	}

	v := viper.New()
	for key, def := range settingDefaults {
		v.SetDefault(key, def)
	}
	v.AutomaticEnv()

	s := Settings{
		GitHubUsername:   v.GetString("github_username"),
		PagesRepo:        v.GetString("github_pages_repo"),
		PagesURL:         v.GetString("github_pages_url"),
		GitRemote:        v.GetString("git_remote"),
		AuthorName:       v.GetString("author_name"),
		AuthorEmail:      v.GetString("author_email"),
		DefaultBranch:    v.GetString("default_branch"),
		DefaultTargetDir: v.GetString("default_target_dir"),
		DefaultTemplate:  v.GetString("default_template"),
		EnabledActions:   splitList(v.GetString("enabled_actions")),
	}
	return s, nil
}

// RepositorySlug returns the "<username>/<repo>" form used by the theme's
// repository field.
func (s Settings) RepositorySlug() string {
	return fmt.Sprintf("%s/%s", s.GitHubUsername, s.PagesRepo)
}

// ActionEnabled reports whether the named action is switched on.
func (s Settings) ActionEnabled(name string) bool {
	for _, a := range s.EnabledActions {
		if a == name {
			return true
		}
	}
	return false
}

// Identity returns the commit identity derived from the author settings.
func (s Settings) Identity() Identity {
	return Identity{Name: s.AuthorName, Email: s.AuthorEmail}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
