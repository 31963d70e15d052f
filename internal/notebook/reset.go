package notebook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotAFile is returned by Reset when the resolved path is missing or a directory.
var ErrNotAFile = errors.New("notebook file not found")

// ResolvePath appends the .ipynb extension when name has none.
func ResolvePath(name string) string {
	if filepath.Ext(name) != ".ipynb" {
		return name + ".ipynb"
	}
	return name
}

// Reset clears execution counts and outputs of every code cell of the named
// notebook and rewrites it. It returns the resolved path and the number of
// cells that carried output.
func Reset(name string) (string, int, error) {
	path := ResolvePath(name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return path, 0, fmt.Errorf("%w: can't find file '%s'", ErrNotAFile, path)
	}

	nb, err := Load(path)
	if err != nil {
		return path, 0, err
	}
	cleared := nb.ClearOutputs()
	if err := Save(path, nb); err != nil {
		return path, 0, err
	}
	return path, cleared, nil
}
