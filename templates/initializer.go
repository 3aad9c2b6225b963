package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"folioctl/services"

	"github.com/rs/zerolog/log"
)

// ErrDestinationExists is returned when the target directory already holds
// files.
var ErrDestinationExists = errors.New("already exists and is not empty")

// Options selects where and how a new site is created. Empty fields fall
// back to the settings.
type Options struct {
	TargetDir string
	Remote    string
	Branch    string
	Bundle    bool
}

// Initializer clones a template into a new, history-free site repository.
type Initializer struct {
	settings services.Settings
	git      *services.GitService
	bundler  *services.BundlerService
	fs       *services.FileService
}

func NewInitializer(settings services.Settings, git *services.GitService, bundler *services.BundlerService, fs *services.FileService) *Initializer {
	return &Initializer{settings: settings, git: git, bundler: bundler, fs: fs}
}

func (in *Initializer) withDefaults(opts Options) Options {
	if opts.TargetDir == "" {
		opts.TargetDir = in.settings.DefaultTargetDir
	}
	if opts.Remote == "" {
		opts.Remote = in.settings.GitRemote
	}
	if opts.Branch == "" {
		opts.Branch = in.settings.DefaultBranch
	}
	return opts
}

// prepareTarget makes sure nothing is in the way of the clone. An empty
// directory is removed so the clone can be moved into its place.
func (in *Initializer) prepareTarget(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		empty, err := in.fs.IsEmptyDir(dir)
		if err != nil {
			return err
		}
		if empty {
			return os.Remove(dir)
		}
	}
	return fmt.Errorf("destination '%s' %w", dir, ErrDestinationExists)
}

// clone fetches a shallow copy of t into a temporary directory and moves it
// to dir. The temporary directory is removed on every path.
func (in *Initializer) clone(ctx context.Context, t *Template, dir string) error {
	tmp, err := os.MkdirTemp("", "folioctl-")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	cloneDir := filepath.Join(tmp, t.Name)
	log.Debug().Str("repo", t.RepoURL).Str("dir", cloneDir).Msg("cloning template")
	if err := in.git.Clone(ctx, t.RepoURL, cloneDir, 1); err != nil {
		return fmt.Errorf("failed to clone %s: %w", t.RepoURL, err)
	}
	if parent := filepath.Dir(dir); parent != "." {
		if err := in.fs.MkdirAll(parent, 0755); err != nil {
			return err
		}
	}
	return in.fs.Move(cloneDir, dir)
}

// Run creates the site described by opts from template t and prints the
// next steps to out. Only the optional dependency install may fail without
// aborting; nothing is rolled back on other failures.
func (in *Initializer) Run(ctx context.Context, out io.Writer, t *Template, opts Options) error {
	opts = in.withDefaults(opts)
	dir := opts.TargetDir

	if err := in.prepareTarget(dir); err != nil {
		return err
	}
	if err := in.clone(ctx, t, dir); err != nil {
		return err
	}
	if err := in.fs.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return err
	}
	if t.Configure != nil {
		if err := t.Configure(in.fs, dir, in.settings); err != nil {
			return err
		}
	}
	err := in.git.SetupRepo(ctx, dir, services.RepoSetup{
		Branch:        opts.Branch,
		Remote:        opts.Remote,
		CommitMessage: t.CommitMessage,
		Author:        in.settings.Identity(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up repository: %w", err)
	}

	fmt.Fprintf(out, "Repository ready at '%s'.\n", dir)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. cd '%s'\n", dir)
	fmt.Fprintln(out, "  2. Review _config.yml and content pages")
	fmt.Fprintln(out, "  3. Update site metadata and personal details")
	fmt.Fprintf(out, "  4. git push -u origin %s\n", opts.Branch)

	in.bundler.InstallDependencies(ctx, out, dir, opts.Bundle)
	return nil
}
