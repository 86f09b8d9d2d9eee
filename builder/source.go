package builder

import (
	"fmt"
	"path/filepath"

	"github.com/reoring/schematree/document"
)

// Source supplies the documents addressed by non-local references such as
// "common.json#/definitions/A". The local document is never requested.
type Source interface {
	Document(name string) (any, error)
}

// MapSource serves documents from memory.
type MapSource map[string]any

func (m MapSource) Document(name string) (any, error) {
	doc, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("document %q not found", name)
	}
	return doc, nil
}

// DirSource reads referenced documents relative to a directory. JSON and YAML
// are both accepted.
type DirSource struct {
	Dir string
}

func (s DirSource) Document(name string) (any, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, name)
	}
	return document.LoadFile(path)
}
