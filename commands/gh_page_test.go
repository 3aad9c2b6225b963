package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"folioctl/services"
	"folioctl/templates"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okRunner accepts every command without touching the filesystem.
type okRunner struct {
	calls int
}

func (r *okRunner) Run(ctx context.Context, dir, name string, args ...string) (services.CmdResult, error) {
	r.calls++
	return services.CmdResult{}, nil
}

func testSettings(dir string) services.Settings {
	return services.Settings{
		GitHubUsername:   "alice",
		PagesRepo:        "alice.github.io",
		PagesURL:         "https://alice.github.io",
		GitRemote:        "git@github.com:alice/alice.github.io.git",
		AuthorName:       "Alice",
		DefaultBranch:    "main",
		DefaultTargetDir: dir,
		DefaultTemplate:  "al-folio",
		EnabledActions:   services.AllActions,
	}
}

func execute(t *testing.T, settings services.Settings, args ...string) (string, error) {
	t.Helper()
	runner := &okRunner{}
	git := services.NewGitService(runner)
	fs := services.NewFileService()

	root := &cobra.Command{Use: "folioctl", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(NewGhPageCommand(Deps{
		Settings:    settings,
		Site:        services.NewSiteService(settings, git, fs),
		Initializer: templates.NewInitializer(settings, git, services.NewBundlerService(runner), fs),
	}))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, services.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParsePairs(t *testing.T) {
	got := ParsePairs([]string{
		"title=My Blog",
		"enable_darkmode=TRUE",
		"enable_math=false",
		"posts_per_page=5",
		"url=https://a.io/?x=1",
		"no-equals",
		"=orphan",
		"empty=",
	}, true)

	assert.Equal(t, []services.KeyValue{
		{Key: "title", Value: "My Blog"},
		{Key: "enable_darkmode", Value: true},
		{Key: "enable_math", Value: false},
		{Key: "posts_per_page", Value: "5"},
		{Key: "url", Value: "https://a.io/?x=1"},
		{Key: "empty", Value: ""},
	}, got)

	raw := ParsePairs([]string{"flag=true"}, false)
	assert.Equal(t, []services.KeyValue{{Key: "flag", Value: "true"}}, raw)
}

func TestSplitTarget(t *testing.T) {
	name, rest := splitTarget([]string{"al-folio", "a=b"}, "default")
	assert.Equal(t, "al-folio", name)
	assert.Equal(t, []string{"a=b"}, rest)

	name, rest = splitTarget([]string{"a=b"}, "default")
	assert.Equal(t, "default", name)
	assert.Equal(t, []string{"a=b"}, rest)

	name, rest = splitTarget(nil, "default")
	assert.Equal(t, "default", name)
	assert.Empty(t, rest)
}

func TestGhPage_UpdateMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "title: Old\nrepository: alice/alice.github.io\nbaseurl: \"\"\n")

	out, err := execute(t, testSettings(dir), "gh-page", "update-metadata", "title=My Blog")
	require.NoError(t, err)
	assert.Equal(t, "Updated 1 setting(s) in _config.yml\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title: My Blog\nrepository: alice/alice.github.io\nbaseurl: \"\"\n", string(data))
}

func TestGhPage_UpdateMetadataWithTemplateAndDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "title: Old\n")

	_, err := execute(t, testSettings("elsewhere"), "gh-page", "update-metadata", "al-folio", "--dir", dir, "enable_darkmode=true")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title: Old\nenable_darkmode: true\n", string(data))
}

func TestGhPage_UpdateMetadataWithoutPairs(t *testing.T) {
	out, err := execute(t, testSettings(t.TempDir()), "gh-page", "update-metadata")
	require.NoError(t, err)
	assert.Equal(t, "No key=value pairs provided. Example: first_name=John last_name=Doe\n", out)
}

func TestGhPage_UpdateSocialsWithoutPairs(t *testing.T) {
	out, err := execute(t, testSettings(t.TempDir()), "gh-page", "update-socials")
	require.NoError(t, err)
	assert.Contains(t, out, "No key=value pairs provided.\n")
	assert.Contains(t, out, "Available keys:")
}

func TestGhPage_UpdateSocials(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, testSettings(dir), "gh-page", "update-socials", "github_username=alice", "x_username=none")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, services.SocialsFile))
	require.NoError(t, err)
	assert.Equal(t, "github_username: alice\n", string(data))
}

func TestGhPage_UnknownTemplate(t *testing.T) {
	_, err := execute(t, testSettings(t.TempDir()), "gh-page", "review-config", "jekyll-now")
	require.Error(t, err)
	assert.True(t, errors.Is(err, templates.ErrUnknownTemplate))
	assert.EqualError(t, err, "template 'jekyll-now' not found")
}

func TestGhPage_UnknownAction(t *testing.T) {
	_, err := execute(t, testSettings(t.TempDir()), "gh-page", "deploy")
	assert.EqualError(t, err, `unknown action "deploy" for "gh-page"`)
}

func TestGhPage_HelpExitsCleanly(t *testing.T) {
	for _, args := range [][]string{
		{"gh-page"},
		{"gh-page", "help"},
		{"gh-page", "--help"},
		{"gh-page", "init", "-h"},
	} {
		out, err := execute(t, testSettings(t.TempDir()), args...)
		assert.NoError(t, err, args)
		assert.Contains(t, out, "Usage:", args)
	}
}

func TestGhPage_DisabledActionIsUnknown(t *testing.T) {
	settings := testSettings(t.TempDir())
	settings.EnabledActions = []string{services.ActionInit, services.ActionReviewConfig}

	_, err := execute(t, settings, "gh-page", "push")
	assert.EqualError(t, err, `unknown action "push" for "gh-page"`)

	_, err = execute(t, settings, "gh-page", "review-config")
	assert.NoError(t, err)
}

func TestGhPage_MissingSiteDirectory(t *testing.T) {
	_, err := execute(t, testSettings(filepath.Join(t.TempDir(), "missing")), "gh-page", "review-content")
	assert.ErrorIs(t, err, services.ErrSiteMissing)
}

func TestGhPage_InitRejectsNonEmptyTarget(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "title: x\n")

	_, err := execute(t, testSettings("unused"), "gh-page", "init", "--dir", dir)
	assert.ErrorIs(t, err, templates.ErrDestinationExists)
}

func TestGhPage_InteractiveNeedsTerminal(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "title: x\n")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	stdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = stdin }()

	_, err = execute(t, testSettings(dir), "gh-page", "update-metadata", "--interactive")
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestPromptChanges(t *testing.T) {
	answers := map[string]string{
		"title":   "New Title",
		"email":   "me@example.com",
		"baseurl": "",
		"url":     "true",
	}
	prompt := func(key, current string) (string, error) {
		return answers[key], nil
	}
	current := map[string]any{"title": "Old", "email": "me@example.com", "baseurl": ""}

	got, err := promptChanges(prompt, []string{"title", "email", "baseurl", "url"}, current)
	require.NoError(t, err)
	assert.Equal(t, []services.KeyValue{
		{Key: "title", Value: "New Title"},
		{Key: "url", Value: true},
	}, got)
}

func TestPromptChanges_Error(t *testing.T) {
	boom := errors.New("interrupt")
	_, err := promptChanges(func(string, string) (string, error) { return "", boom }, []string{"title"}, nil)
	assert.ErrorIs(t, err, boom)
}
