package pipeline

import (
	"fmt"
	"hfscrape/internal/links"
)

type Batching string

const (
	// BatchPerFile writes one raw/clean pair for every link file, named
	// after the file.
	BatchPerFile Batching = "per_file"
	// BatchGlobal writes a single raw/clean pair for all links.
	BatchGlobal Batching = "global"
)

const DefaultBatchName = "datasets_info"

// Batch is a named list of links that share one pair of output files.
type Batch struct {
	Name  string
	Links []string
}

// Source describes where links come from and how they are grouped.
type Source struct {
	// Dir is read when File is empty.
	Dir  string
	File string

	Batching Batching
	// BatchName names the batch in BatchGlobal mode.
	BatchName string
}

func (s Source) files() ([]links.File, error) {
	if s.File != "" {
		f, err := links.ReadFile(s.File)
		if err != nil {
			return nil, err
		}
		return []links.File{f}, nil
	}
	return links.ReadDir(s.Dir)
}

// Load reads every link file and groups the links into batches.
func (s Source) Load() ([]Batch, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	return Group(files, s.Batching, s.BatchName)
}

// Group turns link files into batches according to batching. In per-file
// mode two files sharing a name (a.txt, a.csv) are rejected since their
// outputs would overwrite each other.
func Group(files []links.File, batching Batching, batchName string) ([]Batch, error) {
	switch batching {
	case BatchPerFile, "":
		batches := make([]Batch, len(files))
		seen := make(map[string]string, len(files))
		for i, f := range files {
			if other, ok := seen[f.Name]; ok {
				return nil, fmt.Errorf("link files %s and %s would both write batch %q", other, f.Path, f.Name)
			}
			seen[f.Name] = f.Path
			batches[i] = Batch{Name: f.Name, Links: f.Links}
		}
		return batches, nil
	case BatchGlobal:
		if batchName == "" {
			batchName = DefaultBatchName
		}
		return []Batch{{Name: batchName, Links: links.Concat(files)}}, nil
	default:
		return nil, fmt.Errorf("unknown batching mode %q", batching)
	}
}
