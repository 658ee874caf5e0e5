package profiles

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bigladder/erin/internal/diagnostics"
	"gopkg.in/yaml.v3"
)

// Loader walks a directory of *.yaml/*.yml preset files into a merged
// Library of reusable distribution and fragility-curve presets.
type Loader struct {
	Dir string
	log *diagnostics.Logger
}

// NewLoader returns a Loader rooted at dir, logging skipped/invalid
// files through log (diagnostics.New("profiles") if log is nil).
func NewLoader(dir string, log *diagnostics.Logger) *Loader {
	if log == nil {
		log = diagnostics.New("profiles")
	}
	return &Loader{Dir: dir, log: log}
}

// LoadDirectory walks l.Dir recursively, parsing every *.yaml/*.yml file
// as a Document and merging it into the returned Library. A file that
// fails to parse or validate is logged and skipped rather than failing
// the whole load, mirroring LoadProfilesFromDirectory's
// "Warning: Failed to load profile ... Continue loading other profiles"
// behavior; an empty or absent directory yields an empty Library, not
// an error.
func (l *Loader) LoadDirectory() (*Library, error) {
	lib := NewLibrary()

	if _, err := os.Stat(l.Dir); os.IsNotExist(err) {
		return lib, nil
	}

	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(d.Name())
		if !strings.HasSuffix(lower, ".yaml") && !strings.HasSuffix(lower, ".yml") {
			return nil
		}

		doc, err := l.loadFile(path)
		if err != nil {
			l.log.Warning("skipping %s: %v", path, err)
			return nil
		}
		if err := lib.Add(*doc); err != nil {
			l.log.Warning("skipping %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Loader) loadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
