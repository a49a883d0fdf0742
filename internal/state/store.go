package state

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

// FileName is the project state file's fixed name, always resolved relative
// to the target directory.
const FileName = ".cyan_state.yaml"

// Load reads <dir>/.cyan_state.yaml. A missing file is not an error: it
// means no template has ever been run in dir, so an empty ProjectState is
// returned.
func Load(dir string) (ProjectState, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProjectState{}, nil
		}
		return nil, &cyanerr.IOError{Op: "read " + path, Err: err}
	}

	var ps ProjectState
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, &cyanerr.IOError{Op: "parse " + path, Err: err}
	}
	if ps == nil {
		ps = ProjectState{}
	}
	return ps, nil
}

// Save writes ps to <dir>/.cyan_state.yaml, creating dir if necessary.
func Save(dir string, ps ProjectState) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &cyanerr.IOError{Op: "mkdir " + dir, Err: err}
	}

	data, err := yaml.Marshal(ps)
	if err != nil {
		return &cyanerr.IOError{Op: "encode project state", Err: err}
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &cyanerr.IOError{Op: "write " + path, Err: err}
	}
	return nil
}
