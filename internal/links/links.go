// Package links reads newline-delimited link files.
package links

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// File is the content of one link file.
type File struct {
	// Name is the file name without its extension, it names the file's batch.
	Name  string
	Path  string
	Links []string
}

// Parse splits text into lines, trims each one and drops blank lines.
func Parse(contents []byte) []string {
	var out []string
	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func ReadFile(path string) (File, error) {
	slog.Info(fmt.Sprintf("reading links from %s", path))

	contents, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read link file: %w", err)
	}
	links := Parse(contents)

	slog.Info(fmt.Sprintf("found %d links in %s", len(links), path))

	base := filepath.Base(path)
	return File{
		Name:  strings.TrimSuffix(base, filepath.Ext(base)),
		Path:  path,
		Links: links,
	}, nil
}

// ReadDir reads every regular file directly under dir in lexical order,
// subdirectories are skipped.
func ReadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read link directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Concat joins the links of every file, keeping file order.
func Concat(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Links...)
	}
	return out
}
