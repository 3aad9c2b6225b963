package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"folioctl/services"

	"github.com/rs/zerolog/log"
)

// AlFolioRepoURL is the upstream al-folio theme.
const AlFolioRepoURL = "https://github.com/alshedivat/al-folio.git"

// aboutPlaceholder is the author name shipped in the theme's about page.
const aboutPlaceholder = "Your Name"

func init() {
	register(&Template{
		Name:          "al-folio",
		Aliases:       []string{"alfolio"},
		RepoURL:       AlFolioRepoURL,
		CommitMessage: "Initialize site with Al-folio",
		Configure:     configureAlFolio,
	})
}

// configField matches a top-level "key: value" line with a non-empty value.
func configField(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `:[ \t]*\S.*$`)
}

// RewriteConfigFields points url, baseurl and repository of an al-folio
// _config.yml at the user's GitHub Pages site. Only lines already carrying a
// value are rewritten; everything else is left as is.
func RewriteConfigFields(text string, settings services.Settings) string {
	fields := []struct{ key, line string }{
		{"url", "url: " + settings.PagesURL},
		{"baseurl", `baseurl: ""`},
		{"repository", "repository: " + settings.RepositorySlug()},
	}
	for _, f := range fields {
		text = configField(f.key).ReplaceAllLiteralString(text, f.line)
	}
	return text
}

func configureAlFolio(fs *services.FileService, dir string, settings services.Settings) error {
	configPath := filepath.Join(dir, services.ConfigFile)
	if fs.Exists(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", configPath, err)
		}
		if err := os.WriteFile(configPath, []byte(RewriteConfigFields(string(data), settings)), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		log.Debug().Str("file", configPath).Msg("configured for GitHub Pages")
	}

	aboutPath := filepath.Join(dir, services.AboutPage)
	replaced, err := fs.ReplaceFirst(aboutPath, aboutPlaceholder, settings.AuthorName)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", aboutPath, err)
	}
	if replaced {
		log.Debug().Str("file", aboutPath).Msg("set author name")
	}
	return nil
}
