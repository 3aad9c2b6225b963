package services

import (
	"context"
	"strconv"
	"strings"
)

// Identity is the author recorded on commits made by folioctl.
type Identity struct {
	Name  string
	Email string
}

// RepoSetup describes a fresh repository created by SetupRepo.
type RepoSetup struct {
	Branch        string
	Remote        string
	CommitMessage string
	Author        Identity
}

type GitService struct {
	runner CommandRunner
}

// NewGitService creates a GitService that shells out through runner.
func NewGitService(runner CommandRunner) *GitService {
	return &GitService{runner: runner}
}

func (g *GitService) git(ctx context.Context, dir string, args ...string) (CmdResult, error) {
	return run(ctx, g.runner, dir, "git", args...)
}

// Clone clones repoURL into targetDir. A positive depth makes a shallow clone.
func (g *GitService) Clone(ctx context.Context, repoURL, targetDir string, depth int) error {
	args := []string{"clone"}
	if depth > 0 {
		args = append(args, "--depth="+strconv.Itoa(depth))
	}
	args = append(args, repoURL, targetDir)
	_, err := g.git(ctx, "", args...)
	return err
}

// Init creates a new repository in dir whose initial branch is branch.
func (g *GitService) Init(ctx context.Context, dir, branch string) error {
	_, err := g.git(ctx, dir, "init", "-b", branch)
	return err
}

// IsRepo reports whether dir is inside a git working tree.
func (g *GitService) IsRepo(ctx context.Context, dir string) bool {
	res, err := g.git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(res.Stdout) == "true"
}

// AddAll stages every change in the working tree at dir.
func (g *GitService) AddAll(ctx context.Context, dir string) error {
	_, err := g.git(ctx, dir, "add", ".")
	return err
}

// Commit creates a commit with the given message in the repo at dir. The
// author identity is passed inline when an email is known so that commits
// work on machines without a global git identity.
func (g *GitService) Commit(ctx context.Context, dir, message string, author Identity) error {
	var args []string
	if author.Email != "" {
		if author.Name != "" {
			args = append(args, "-c", "user.name="+author.Name)
		}
		args = append(args, "-c", "user.email="+author.Email)
	}
	args = append(args, "commit", "-m", message)
	_, err := g.git(ctx, dir, args...)
	return err
}

// AddRemote registers url under name.
func (g *GitService) AddRemote(ctx context.Context, dir, name, url string) error {
	_, err := g.git(ctx, dir, "remote", "add", name, url)
	return err
}

// Status returns the porcelain status lines of the repo at dir.
func (g *GitService) Status(ctx context.Context, dir string) ([]string, error) {
	res, err := g.git(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// HasChanges reports whether the working tree or index has pending changes.
func (g *GitService) HasChanges(ctx context.Context, dir string) (bool, error) {
	lines, err := g.Status(ctx, dir)
	if err != nil {
		return false, err
	}
	return len(lines) > 0, nil
}

// Push pushes branch to remote, optionally setting it as upstream.
func (g *GitService) Push(ctx context.Context, dir, remote, branch string, setUpstream bool) (string, error) {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	res, err := g.git(ctx, dir, args...)
	return strings.TrimSpace(res.Stdout + res.Stderr), err
}

// SetupRepo turns dir into a fresh repository: init on the requested branch,
// stage everything, commit, and register origin when a remote is given.
func (g *GitService) SetupRepo(ctx context.Context, dir string, setup RepoSetup) error {
	if err := g.Init(ctx, dir, setup.Branch); err != nil {
		return err
	}
	if err := g.AddAll(ctx, dir); err != nil {
		return err
	}
	msg := setup.CommitMessage
	if msg == "" {
		msg = "Initial commit"
	}
	if err := g.Commit(ctx, dir, msg, setup.Author); err != nil {
		return err
	}
	if setup.Remote != "" {
		return g.AddRemote(ctx, dir, "origin", setup.Remote)
	}
	return nil
}
