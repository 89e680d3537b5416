// Package manifest locates and reads the package.json describing the package being released.
package manifest

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// FileName is the descriptor looked up by FindUp.
const FileName = "package.json"

// ErrNotFound is returned when no descriptor exists in the directory or any of its ancestors.
var ErrNotFound = errors.New("package.json not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Manifest holds the fields of package.json the preflight checks read.
type Manifest struct {
	// Dependencies maps production dependency names to their version specifier.
	Dependencies map[string]string `json:"dependencies"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	// Path is the absolute path of the file the manifest was read from.
	Path string `json:"-"`
}

// Locator finds the nearest manifest starting at dir.
type Locator func(dir string) (*Manifest, error)

// FindUp walks from dir up to the filesystem root and reads the first package.json found.
func FindUp(dir string) (*Manifest, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve %s", dir)
	}

	for {
		candidate := filepath.Join(current, FileName)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return Read(candidate)
		}

		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "unable to stat %s", candidate)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, ErrNotFound
		}

		current = parent
	}
}

// Read parses the descriptor at path.
func Read(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	m := &Manifest{}

	err = json.Unmarshal(content, m)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}

	m.Path = path

	return m, nil
}
