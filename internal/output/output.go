// Package output writes batches as the json snapshot files.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Dirs struct {
	Raw   string
	Clean string
}

// Prepare creates both directories, it is a no-op when they exist.
func (d Dirs) Prepare() error {
	for _, dir := range []string{d.Raw, d.Clean} {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return nil
}

func (d Dirs) RawPath(batch string) string {
	return filepath.Join(d.Raw, fmt.Sprintf("%s_raw.json", batch))
}

func (d Dirs) CleanPath(batch string) string {
	return filepath.Join(d.Clean, fmt.Sprintf("%s_clean.json", batch))
}

// Marshal renders v as indented json, leaving non-ascii characters and
// html special characters unescaped.
func Marshal(v any) ([]byte, error) {
	var buffer bytes.Buffer
	enc := json.NewEncoder(&buffer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// WriteJSON writes v to path in a single write.
func WriteJSON(path string, v any) error {
	contents, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
