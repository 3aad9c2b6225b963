package templates

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folioctl/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateConfig = `title: blank
url: https://alshedivat.github.io
baseurl: /al-folio
repository: alshedivat/al-folio
`

const templateAbout = "---\nlayout: about\n---\nYour Name. Contact Your Name at example.com.\n"

// templateRunner fakes git and bundle. Clone lays out a tiny al-folio tree
// including its own history; init creates an empty .git directory.
type templateRunner struct {
	calls     []string
	cloneExit int
	bundleErr error
}

func (r *templateRunner) Run(ctx context.Context, dir, name string, args ...string) (services.CmdResult, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.calls = append(r.calls, line)

	switch {
	case name == "git" && args[0] == "clone":
		if r.cloneExit != 0 {
			return services.CmdResult{ExitCode: r.cloneExit, Stderr: "fatal: unable to access"}, nil
		}
		dst := args[len(args)-1]
		files := map[string]string{
			"_config.yml":     templateConfig,
			"_pages/about.md": templateAbout,
			".git/HEAD":       "ref: refs/heads/main\n",
			"Gemfile":         "source 'https://rubygems.org'\n",
		}
		for rel, content := range files {
			path := filepath.Join(dst, rel)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return services.CmdResult{}, err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return services.CmdResult{}, err
			}
		}
	case name == "git" && args[0] == "init":
		if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
			return services.CmdResult{}, err
		}
	case name == "bundle":
		return services.CmdResult{}, r.bundleErr
	}
	return services.CmdResult{}, nil
}

func testSettings() services.Settings {
	return services.Settings{
		GitHubUsername:  "alice",
		PagesRepo:       "alice.github.io",
		PagesURL:        "https://alice.github.io",
		GitRemote:       "git@github.com:alice/alice.github.io.git",
		AuthorName:      "Alice",
		DefaultBranch:   "main",
		DefaultTemplate: "al-folio",
	}
}

func newTestInitializer(runner services.CommandRunner) *Initializer {
	git := services.NewGitService(runner)
	return NewInitializer(testSettings(), git, services.NewBundlerService(runner), services.NewFileService())
}

func alFolio(t *testing.T) *Template {
	t.Helper()
	tmpl, err := Lookup("al-folio")
	require.NoError(t, err)
	return tmpl
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitializer_FreshTarget(t *testing.T) {
	runner := &templateRunner{}
	target := filepath.Join(t.TempDir(), "site")

	var out bytes.Buffer
	err := newTestInitializer(runner).Run(context.Background(), &out, alFolio(t), Options{TargetDir: target, Branch: "main"})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(target, ".git"))
	assert.NoFileExists(t, filepath.Join(target, ".git", "HEAD"), "template history must be removed")

	config := read(t, filepath.Join(target, "_config.yml"))
	assert.Equal(t, "title: blank\nurl: https://alice.github.io\nbaseurl: \"\"\nrepository: alice/alice.github.io\n", config)

	about := read(t, filepath.Join(target, "_pages", "about.md"))
	assert.Equal(t, "---\nlayout: about\n---\nAlice. Contact Your Name at example.com.\n", about)

	require.Len(t, runner.calls, 5)
	assert.True(t, strings.HasPrefix(runner.calls[0], "git clone --depth=1 "+AlFolioRepoURL+" "))
	assert.Equal(t, []string{
		"git init -b main",
		"git add .",
		"git commit -m Initialize site with Al-folio",
		"git remote add origin git@github.com:alice/alice.github.io.git",
	}, runner.calls[1:])

	want := "Repository ready at '" + target + "'.\n" +
		"Next steps:\n" +
		"  1. cd '" + target + "'\n" +
		"  2. Review _config.yml and content pages\n" +
		"  3. Update site metadata and personal details\n" +
		"  4. git push -u origin main\n" +
		"(Optional) Run 'bundle install' inside '" + target + "' before building locally.\n"
	assert.Equal(t, want, out.String())
}

func TestInitializer_EmptyTargetIsReplaced(t *testing.T) {
	target := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.Mkdir(target, 0755))

	err := newTestInitializer(&templateRunner{}).Run(context.Background(), &bytes.Buffer{}, alFolio(t), Options{TargetDir: target})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "_config.yml"))
}

func TestInitializer_NonEmptyTargetIsRejected(t *testing.T) {
	runner := &templateRunner{}
	target := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "notes.txt"), []byte("keep me"), 0644))

	var out bytes.Buffer
	err := newTestInitializer(runner).Run(context.Background(), &out, alFolio(t), Options{TargetDir: target})

	require.ErrorIs(t, err, ErrDestinationExists)
	assert.EqualError(t, err, "destination '"+target+"' already exists and is not empty")
	assert.Empty(t, runner.calls)
	assert.Empty(t, out.String())
	assert.Equal(t, "keep me", read(t, filepath.Join(target, "notes.txt")))
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInitializer_TargetIsAFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	err := newTestInitializer(&templateRunner{}).Run(context.Background(), &bytes.Buffer{}, alFolio(t), Options{TargetDir: target})
	assert.ErrorIs(t, err, ErrDestinationExists)
}

func TestInitializer_CloneFailureAborts(t *testing.T) {
	runner := &templateRunner{cloneExit: 128}
	target := filepath.Join(t.TempDir(), "site")

	err := newTestInitializer(runner).Run(context.Background(), &bytes.Buffer{}, alFolio(t), Options{TargetDir: target})

	var cmdErr *services.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 128, cmdErr.ExitCode)
	assert.NoDirExists(t, target)
	assert.Len(t, runner.calls, 1)
}

func TestInitializer_BundleFailureIsTolerated(t *testing.T) {
	runner := &templateRunner{bundleErr: os.ErrNotExist}
	target := filepath.Join(t.TempDir(), "site")

	var out bytes.Buffer
	err := newTestInitializer(runner).Run(context.Background(), &out, alFolio(t), Options{TargetDir: target, Bundle: true})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Warning: bundle install failed\n")
	assert.Equal(t, "bundle install", runner.calls[len(runner.calls)-1])
}

func TestInitializer_DefaultsFromSettings(t *testing.T) {
	runner := &templateRunner{}
	in := newTestInitializer(runner)
	in.settings.DefaultTargetDir = filepath.Join(t.TempDir(), "alice.github.io")
	in.settings.DefaultBranch = "gh-pages"

	require.NoError(t, in.Run(context.Background(), &bytes.Buffer{}, alFolio(t), Options{}))

	assert.DirExists(t, in.settings.DefaultTargetDir)
	assert.Contains(t, runner.calls, "git init -b gh-pages")
	assert.Contains(t, runner.calls, "git remote add origin git@github.com:alice/alice.github.io.git")
}
