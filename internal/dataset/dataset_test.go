package dataset

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func messyRecord() Record {
	return Record{
		Id:          3,
		Link:        "https://hf.example/datasets/foo/bar?x=1  ",
		FullName:    ptr(" foo /\n bar "),
		Size:        "  1.2 GB \n",
		Description: "\n\tA   dataset\nof things.  ",
		Modalities:  []string{" Text\n", "Image"},
		Formats:     []string{},
		Tags:        []string{"  multi   word  tag "},
		Libraries:   []string{"Datasets", "\n pandas\n"},
	}
}

func TestEntries(t *testing.T) {
	entries := Entries([]string{"a", "b", "c"})
	require.Equal(t, []Entry{{1, "a"}, {2, "b"}, {3, "c"}}, entries)
	require.Empty(t, Entries(nil))
}

func TestNewRecordFallbacks(t *testing.T) {
	entry := Entry{Id: 1, Link: "https://hf.example/datasets/foo/bar"}

	r := NewRecord(entry, Fields{}, Options{IncludeFullName: true})
	expected := Record{
		Id:          1,
		Link:        entry.Link,
		FullName:    ptr("/"),
		Size:        NoSize,
		Description: NoDescription,
		Modalities:  []string{},
		Formats:     []string{},
		Tags:        []string{},
		Libraries:   []string{},
	}
	if diff := cmp.Diff(expected, r); diff != "" {
		t.Fatal(diff)
	}

	r = NewRecord(entry, Fields{Name: ptr("bar"), Size: ptr("3 MB")}, Options{})
	require.Nil(t, r.FullName)
	require.Equal(t, "3 MB", r.Size)
	require.Equal(t, NoDescription, r.Description)

	r = NewRecord(entry, Fields{Name: ptr("bar")}, Options{IncludeFullName: true})
	require.Equal(t, "/bar", *r.FullName)

	r = NewRecord(entry, Fields{Creator: ptr("\n\t foo\n"), Name: ptr(" bar ")}, Options{IncludeFullName: true})
	require.Equal(t, "foo/bar", *r.FullName)
}

func TestErrorRecord(t *testing.T) {
	r := ErrorRecord(Entry{Id: 4, Link: "https://bad"}, Options{IncludeFullName: true})
	require.Equal(t, 4, r.Id)
	require.Equal(t, "https://bad", r.Link)
	require.Equal(t, ErrorFullName, *r.FullName)
	require.Equal(t, ErrorSize, r.Size)
	require.Equal(t, ErrorDescription, r.Description)
	require.Empty(t, r.Modalities)
	require.NotNil(t, r.Libraries)
}

func TestNormalize(t *testing.T) {
	raw := messyRecord()
	clean := Normalize(raw)

	expected := Record{
		Id:          3,
		Link:        "https://hf.example/datasets/foo/bar?x=1  ",
		FullName:    ptr("foo / bar"),
		Size:        "1.2 GB",
		Description: "A dataset of things.",
		Modalities:  []string{"Text", "Image"},
		Formats:     []string{},
		Tags:        []string{"multi word tag"},
		Libraries:   []string{"Datasets", "pandas"},
	}
	if diff := cmp.Diff(expected, clean); diff != "" {
		t.Fatal(diff)
	}

	// the input is left as it was
	if diff := cmp.Diff(messyRecord(), raw); diff != "" {
		t.Fatal(diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	records := []Record{
		messyRecord(),
		ErrorRecord(Entry{Id: 1, Link: "x"}, Options{}),
		NewRecord(Entry{Id: 2, Link: "y"}, Fields{}, Options{IncludeFullName: true}),
	}
	for _, r := range records {
		once := Normalize(r)
		if diff := cmp.Diff(once, Normalize(once)); diff != "" {
			t.Fatal(diff)
		}
		require.Equal(t, r.Id, once.Id)
		require.Equal(t, r.Link, once.Link)
		require.Len(t, once.Modalities, len(r.Modalities))
		require.Len(t, once.Formats, len(r.Formats))
		require.Len(t, once.Tags, len(r.Tags))
		require.Len(t, once.Libraries, len(r.Libraries))
	}
}

func TestRecordJSON(t *testing.T) {
	r := NewRecord(Entry{Id: 1, Link: "https://hf.example/d"}, Fields{}, Options{})
	out, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": 1,
		"link": "https://hf.example/d",
		"size_of_downloaded_dataset_files": "Size not available",
		"description": "No description available",
		"modalities": [],
		"formats": [],
		"tags": [],
		"libraries": []
	}`, string(out))

	r = NewRecord(Entry{Id: 1, Link: "https://hf.example/d"}, Fields{}, Options{IncludeFullName: true})
	out, err = json.Marshal(r)
	require.NoError(t, err)
	require.Contains(t, string(out), `"dataset_full_name":"/"`)
}
