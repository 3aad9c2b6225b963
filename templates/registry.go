// Package templates creates new site repositories from upstream theme
// templates.
package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"folioctl/services"
)

// ErrUnknownTemplate matches errors returned by Lookup for names with no
// registered template.
var ErrUnknownTemplate = errors.New("unknown template")

// UnknownTemplateError names the template that could not be found.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("template '%s' not found", e.Name)
}

func (e *UnknownTemplateError) Is(target error) bool {
	return target == ErrUnknownTemplate
}

// Template describes an upstream theme and how a fresh clone of it is
// personalized.
type Template struct {
	Name          string
	Aliases       []string
	RepoURL       string
	CommitMessage string
	// Configure rewrites the freshly cloned files in dir.
	Configure func(fs *services.FileService, dir string, settings services.Settings) error
}

var registry = map[string]*Template{}

func register(t *Template) {
	registry[t.Name] = t
	for _, alias := range t.Aliases {
		registry[alias] = t
	}
}

// Lookup returns the template registered under name or one of its aliases.
func Lookup(name string) (*Template, error) {
	t, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownTemplateError{Name: name}
	}
	return t, nil
}

// Names returns the canonical names of all registered templates.
func Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range registry {
		if !seen[t.Name] {
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}
