package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"folioctl/diffview"

	"github.com/rs/zerolog/log"
)

// ErrSiteMissing is returned when an operation targets a site directory that
// has not been created yet.
var ErrSiteMissing = errors.New("site directory does not exist")

// Well-known paths inside a site working tree.
const (
	ConfigFile  = "_config.yml"
	SocialsFile = "_data/socials.yml"
	AboutPage   = "_pages/about.md"
)

// DefaultPushMessage is the commit message used by Push when none is given.
const DefaultPushMessage = "Update site content"

// ReviewKeys are the _config.yml keys shown by ReviewConfig.
var ReviewKeys = []string{"title", "email", "description", "url", "baseurl"}

// ContentDirs are the directories scanned by ReviewContent.
var ContentDirs = []string{"_pages", "_posts", "_projects"}

// KeyValue is one requested change. Value is already typed by the caller.
type KeyValue struct {
	Key   string
	Value any
}

// UpdateOptions controls how document edits are applied.
type UpdateOptions struct {
	DryRun     bool
	SideBySide bool
}

// SiteService implements the review, update and push operations against an
// existing site working tree.
type SiteService struct {
	settings Settings
	git      *GitService
	fs       *FileService
	renderer *diffview.Renderer
}

func NewSiteService(settings Settings, git *GitService, fs *FileService) *SiteService {
	return &SiteService{
		settings: settings,
		git:      git,
		fs:       fs,
		renderer: diffview.NewRenderer(),
	}
}

// Open checks that dir is an existing site directory and returns it.
func (s *SiteService) Open(dir string) (string, error) {
	if dir == "" {
		dir = s.settings.DefaultTargetDir
	}
	if !s.fs.IsDir(dir) {
		return "", fmt.Errorf("%w: '%s' (run 'folioctl gh-page init' first)", ErrSiteMissing, dir)
	}
	return dir, nil
}

// ReviewConfig prints the reviewed keys of _config.yml that are present.
func (s *SiteService) ReviewConfig(out io.Writer, dir string) error {
	dir, err := s.Open(dir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ConfigFile)
	doc, err := LoadDocument(path)
	if errors.Is(err, ErrNotFound) {
		fmt.Fprintln(out, "No _config.yml found")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Config file: %s\n", path)
	fmt.Fprintln(out, "Key settings:")
	for _, key := range ReviewKeys {
		if v, ok := doc.Get(key); ok {
			fmt.Fprintf(out, "  %s: %v\n", key, formatValue(v))
		}
	}
	return nil
}

// ReviewContent lists the markdown pages of each content directory. Missing
// or empty directories are skipped.
func (s *SiteService) ReviewContent(out io.Writer, dir string) error {
	dir, err := s.Open(dir)
	if err != nil {
		return err
	}
	for _, name := range ContentDirs {
		contentDir := filepath.Join(dir, name)
		files, err := s.fs.ListFiles(contentDir, ".md")
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", contentDir, err)
		}
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", name)
		for _, f := range files {
			if title := PageTitle(filepath.Join(contentDir, f)); title != "" {
				fmt.Fprintf(out, "  %s (%s)\n", f, title)
			} else {
				fmt.Fprintf(out, "  %s\n", f)
			}
		}
	}
	return nil
}

// ConfigValues returns the current values of keys in _config.yml.
func (s *SiteService) ConfigValues(dir string, keys []string) (map[string]any, error) {
	dir, err := s.Open(dir)
	if err != nil {
		return nil, err
	}
	doc, err := LoadDocument(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		if v, ok := doc.Get(key); ok {
			values[key] = v
		}
	}
	return values, nil
}

// UpdateMetadata merges values into _config.yml and writes the whole mapping
// back. Unknown keys are added as given.
func (s *SiteService) UpdateMetadata(out io.Writer, dir string, values []KeyValue, opts UpdateOptions) error {
	dir, err := s.Open(dir)
	if err != nil {
		return err
	}
	doc, err := LoadDocument(filepath.Join(dir, ConfigFile))
	if errors.Is(err, ErrNotFound) {
		fmt.Fprintln(out, "No _config.yml found")
		return nil
	}
	if err != nil {
		return err
	}

	before, err := doc.Bytes()
	if err != nil {
		return err
	}
	for _, kv := range values {
		if err := doc.Set(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	if err := s.commit(out, doc, before, opts); err != nil {
		return err
	}
	if !opts.DryRun {
		fmt.Fprintf(out, "Updated %d setting(s) in _config.yml\n", len(values))
	}
	return nil
}

// IsRemoval reports whether a socials value asks for its key to be deleted.
func IsRemoval(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "null":
		return true
	}
	return false
}

// UpdateSocials sets or removes entries of _data/socials.yml, creating the
// file when it does not exist yet.
func (s *SiteService) UpdateSocials(out io.Writer, dir string, values []KeyValue, opts UpdateOptions) error {
	dir, err := s.Open(dir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, SocialsFile)
	doc, err := LoadDocument(path)
	if errors.Is(err, ErrNotFound) {
		doc = NewDocument(path)
	} else if err != nil {
		return err
	}

	var before []byte
	if s.fs.Exists(path) {
		if before, err = os.ReadFile(path); err != nil {
			return err
		}
	}
	for _, kv := range values {
		str := fmt.Sprint(kv.Value)
		if IsRemoval(str) {
			if doc.Delete(kv.Key) {
				fmt.Fprintf(out, "  Removed %s\n", kv.Key)
			}
			continue
		}
		if err := doc.Set(kv.Key, kv.Value); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Set %s: %s\n", kv.Key, str)
	}
	if err := s.commit(out, doc, before, opts); err != nil {
		return err
	}
	if !opts.DryRun {
		fmt.Fprintf(out, "Updated %d social setting(s)\n", len(values))
	}
	return nil
}

// commit writes doc, or renders the planned change when opts.DryRun is set.
func (s *SiteService) commit(out io.Writer, doc *Document, before []byte, opts UpdateOptions) error {
	if !opts.DryRun {
		return doc.Save()
	}
	after, err := doc.Bytes()
	if err != nil {
		return err
	}
	change := diffview.Change{Label: filepath.Base(doc.Path), Before: string(before), After: string(after)}
	if !change.Changed() {
		fmt.Fprintf(out, "No changes to %s\n", change.Label)
		return nil
	}
	var rendered string
	if opts.SideBySide {
		rendered, err = s.renderer.SideBySide(change)
	} else {
		rendered, err = s.renderer.Unified(change)
	}
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	fmt.Fprintln(out, strings.TrimRight(rendered, "\n"))
	fmt.Fprintf(out, "Dry run: %s not written\n", doc.Path)
	return nil
}

// Push stages everything, commits when there is something to commit, and
// pushes the configured branch to origin with upstream tracking.
func (s *SiteService) Push(ctx context.Context, out io.Writer, dir, message string) error {
	dir, err := s.Open(dir)
	if err != nil {
		return err
	}
	if message == "" {
		message = DefaultPushMessage
	}
	branch := s.settings.DefaultBranch

	if err := s.git.AddAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	changed, err := s.git.HasChanges(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}
	if changed {
		if err := s.git.Commit(ctx, dir, message, s.settings.Identity()); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		fmt.Fprintf(out, "Committed changes: %s\n", message)
	} else {
		fmt.Fprintln(out, "No changes to commit")
	}

	pushOut, err := s.git.Push(ctx, dir, "origin", branch, true)
	if err != nil {
		log.Debug().Err(err).Str("output", pushOut).Msg("push failed")
		fmt.Fprintln(out, "Failed to push. Make sure remote is configured correctly.")
		return fmt.Errorf("push to origin/%s failed: %w", branch, err)
	}
	fmt.Fprintf(out, "Successfully pushed to origin/%s\n", branch)
	return nil
}

func formatValue(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return v
}
