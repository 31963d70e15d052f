package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load reads and parses the notebook at path. Malformed documents yield a
// *MalformedError carrying the path.
func Load(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read notebook %s: %w", path, err)
	}

	nb, err := Parse(data)
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			me.Path = path
		}
		return nil, err
	}
	return nb, nil
}

// Save writes nb to path, replacing the file atomically.
func Save(path string, nb *Notebook) error {
	data, err := Encode(nb)
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write notebook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close notebook: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpName, 0o644)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace notebook: %w", err)
	}
	return nil
}

// python3 kernelspec metadata written into generated notebooks.
var stubMetadata = map[string]any{
	"kernelspec": map[string]any{
		"display_name": "Python 3",
		"language":     "python",
		"name":         "python3",
	},
	"language_info": map[string]any{
		"codemirror_mode": map[string]any{
			"name":    "ipython",
			"version": 3,
		},
		"file_extension":     ".py",
		"mimetype":           "text/x-python",
		"name":               "python",
		"nbconvert_exporter": "python",
		"pygments_lexer":     "ipython3",
		"version":            "3.8.1",
	},
	"orphan": true,
}

// NewMarkdownNotebook builds an orphan notebook holding a single markdown cell.
func NewMarkdownNotebook(markdown string) *Notebook {
	meta, _ := json.Marshal(stubMetadata)
	return &Notebook{
		Cells: []*Cell{{
			CellType: CellMarkdown,
			Source:   SplitLines(markdown),
		}},
		Metadata:      meta,
		NBFormat:      4,
		NBFormatMinor: 4,
	}
}
