// Package prefs loads the user's search preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/internscout/internal/model"
)

// FileStore reads a preference document from disk. The document is JSON
// (YAML is accepted too): {"keywords": [...], ...criteria}.
type FileStore struct {
	path string
}

// NewFileStore returns a store reading preferences from path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the preference file. Every error wraps
// model.ErrConfiguration: a run cannot proceed without preferences.
func (s *FileStore) Load() (model.PreferenceSpec, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.PreferenceSpec{}, fmt.Errorf("%w: read preferences: %w", model.ErrConfiguration, err)
	}
	var spec model.PreferenceSpec
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		spec, err = parseYAML(data)
	default:
		spec, err = Parse(data)
	}
	if err != nil {
		return model.PreferenceSpec{}, fmt.Errorf("%w: %s: %w", model.ErrConfiguration, s.path, err)
	}
	return spec, nil
}

// Parse decodes a preference document. JSON is tried first; anything that
// is not valid JSON is decoded as YAML.
func Parse(data []byte) (model.PreferenceSpec, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return parseYAML(data)
	}
	return fromDocument(doc)
}

func parseYAML(data []byte) (model.PreferenceSpec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.PreferenceSpec{}, fmt.Errorf("parse preferences: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc map[string]any) (model.PreferenceSpec, error) {
	if doc == nil {
		return model.PreferenceSpec{}, fmt.Errorf("parse preferences: document is empty")
	}

	spec := model.PreferenceSpec{Criteria: make(map[string]any, len(doc))}
	for k, v := range doc {
		if k != "keywords" {
			spec.Criteria[k] = v
			continue
		}
		if v == nil {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return model.PreferenceSpec{}, fmt.Errorf("parse preferences: keywords must be a list, got %T", v)
		}
		for i, item := range list {
			kw, ok := item.(string)
			if !ok {
				return model.PreferenceSpec{}, fmt.Errorf("parse preferences: keywords[%d] must be a string, got %T", i, item)
			}
			spec.Keywords = append(spec.Keywords, kw)
		}
	}
	return spec, nil
}
