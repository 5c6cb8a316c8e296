// Package dataset holds the record written for every dataset page and the
// normalization applied between the raw and the clean snapshot.
package dataset

import (
	"hfscrape/lib/textutil"
	"strings"
)

const (
	NoDescription = "No description available"
	NoSize        = "Size not available"

	ErrorFullName    = "Error fetching dataset name"
	ErrorSize        = "Error fetching size"
	ErrorDescription = "Error fetching description"
)

// Entry is a link paired with its 1-based position in its batch.
type Entry struct {
	Id   int
	Link string
}

// Entries pairs every link with its position.
func Entries(links []string) []Entry {
	out := make([]Entry, len(links))
	for i, link := range links {
		out[i] = Entry{Id: i + 1, Link: link}
	}
	return out
}

// Fields is what could be found on a page, nil means the field's anchor was
// absent.
type Fields struct {
	Creator     *string
	Name        *string
	Description *string
	Size        *string
	Modalities  []string
	Formats     []string
	Tags        []string
	Libraries   []string
}

// Record is the serialized shape of one dataset page.
type Record struct {
	Id   int    `json:"id"`
	Link string `json:"link"`
	// FullName is only emitted when Options.IncludeFullName is set.
	FullName    *string  `json:"dataset_full_name,omitempty"`
	Size        string   `json:"size_of_downloaded_dataset_files"`
	Description string   `json:"description"`
	Modalities  []string `json:"modalities"`
	Formats     []string `json:"formats"`
	Tags        []string `json:"tags"`
	Libraries   []string `json:"libraries"`
}

type Options struct {
	IncludeFullName bool
}

func orDefault(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// NewRecord applies the fallback values for every absent field.
func NewRecord(entry Entry, fields Fields, opts Options) Record {
	r := Record{
		Id:          entry.Id,
		Link:        entry.Link,
		Size:        orDefault(fields.Size, NoSize),
		Description: orDefault(fields.Description, NoDescription),
		Modalities:  nonNil(fields.Modalities),
		Formats:     nonNil(fields.Formats),
		Tags:        nonNil(fields.Tags),
		Libraries:   nonNil(fields.Libraries),
	}
	if opts.IncludeFullName {
		// the two parts are trimmed so the separator does not pick up
		// the whitespace around them
		fullName := strings.TrimSpace(orDefault(fields.Creator, "")) + "/" + strings.TrimSpace(orDefault(fields.Name, ""))
		r.FullName = &fullName
	}
	return r
}

// ErrorRecord is the record written for a page that could not be fetched.
func ErrorRecord(entry Entry, opts Options) Record {
	r := Record{
		Id:          entry.Id,
		Link:        entry.Link,
		Size:        ErrorSize,
		Description: ErrorDescription,
		Modalities:  []string{},
		Formats:     []string{},
		Tags:        []string{},
		Libraries:   []string{},
	}
	if opts.IncludeFullName {
		fullName := ErrorFullName
		r.FullName = &fullName
	}
	return r
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = textutil.CollapseWhitespace(v)
	}
	return out
}

// Normalize returns a copy of r with whitespace collapsed in every string
// field. Id and Link are carried over untouched.
func Normalize(r Record) Record {
	out := Record{
		Id:          r.Id,
		Link:        r.Link,
		Size:        textutil.CollapseWhitespace(r.Size),
		Description: textutil.CollapseWhitespace(r.Description),
		Modalities:  normalizeAll(r.Modalities),
		Formats:     normalizeAll(r.Formats),
		Tags:        normalizeAll(r.Tags),
		Libraries:   normalizeAll(r.Libraries),
	}
	if r.FullName != nil {
		fullName := textutil.CollapseWhitespace(*r.FullName)
		out.FullName = &fullName
	}
	return out
}
