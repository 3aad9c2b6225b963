package services

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a YAML document does not exist on disk.
var ErrNotFound = errors.New("file not found")

// Document is a YAML file whose top level is a mapping. Edits keep the order
// of existing keys and their comments; new keys are appended.
type Document struct {
	Path    string
	root    *yaml.Node
	mapping *yaml.Node
}

// NewDocument returns an empty mapping that will be written to path.
func NewDocument(path string) *Document {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	return &Document{
		Path:    path,
		root:    &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}},
		mapping: mapping,
	}
}

// LoadDocument reads the mapping stored at path. A missing file yields an
// error matching ErrNotFound.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return ParseDocument(path, data)
}

// ParseDocument parses data as the contents of path.
func ParseDocument(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		doc := NewDocument(path)
		doc.root.HeadComment = root.HeadComment
		return doc, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level is not a mapping", path)
	}
	return &Document{Path: path, root: &root, mapping: mapping}, nil
}

func (d *Document) index(key string) int {
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		if d.mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	return d.index(key) >= 0
}

// Get decodes the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	i := d.index(key)
	if i < 0 {
		return nil, false
	}
	var v any
	if err := d.mapping.Content[i+1].Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Set stores value under key, replacing any existing value in place.
func (d *Document) Set(key string, value any) error {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if i := d.index(key); i >= 0 {
		old := d.mapping.Content[i+1]
		node.LineComment = old.LineComment
		node.HeadComment = old.HeadComment
		node.FootComment = old.FootComment
		d.mapping.Content[i+1] = &node
		return nil
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	d.mapping.Content = append(d.mapping.Content, keyNode, &node)
	return nil
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	i := d.index(key)
	if i < 0 {
		return false
	}
	d.mapping.Content = append(d.mapping.Content[:i], d.mapping.Content[i+2:]...)
	return true
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.mapping.Content)/2)
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		keys = append(keys, d.mapping.Content[i].Value)
	}
	return keys
}

// Decode returns the whole mapping as plain Go values.
func (d *Document) Decode() (map[string]any, error) {
	out := map[string]any{}
	if err := d.mapping.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", d.Path, err)
	}
	return out, nil
}

// Bytes serializes the whole document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the whole document back to its path, creating parent
// directories as needed.
func (d *Document) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(d.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", d.Path, err)
	}
	if err := os.WriteFile(d.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	log.Debug().Str("file", d.Path).Int("bytes", len(data)).Msg("wrote yaml")
	return nil
}
