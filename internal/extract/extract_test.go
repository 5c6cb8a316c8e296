package extract

import (
	"context"
	"hfscrape/internal/dataset"
	"hfscrape/lib/htmlutil"
	"strings"
	"testing"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/dataset_page_test.html
var datasetPageTest string

func ptr(s string) *string {
	return &s
}

func extractMarkup(t testing.TB, markup string) dataset.Fields {
	doc, err := htmlutil.ParseString(markup)
	if err != nil {
		t.Fatal(err)
	}
	return Extract(doc)
}

func TestExtract(t *testing.T) {
	fields := extractMarkup(t, datasetPageTest)

	require.Equal(t, "foo", strings.TrimSpace(*fields.Creator))
	require.Equal(t, "bar", *fields.Name)
	require.Equal(t, "  1.2 GB \n", *fields.Size)
	require.Contains(t, *fields.Description, "Dataset Card for bar")
	require.Contains(t, *fields.Description, "A small   dataset\n\t\t\tof things.")
	require.Equal(t, []string{"Text", "Image"}, trimAll(fields.Modalities))
	require.Equal(t, []string{"parquet"}, fields.Formats)
	require.Equal(t, []string{"nlp", "日本語"}, fields.Tags)
	require.Equal(t, []string{"Datasets", "pandas", "Croissant"}, fields.Libraries)
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func TestRecord(t *testing.T) {
	entry := dataset.Entry{Id: 7, Link: "https://hf.example/datasets/foo/bar"}
	raw := Record(context.Background(), entry, datasetPageTest, dataset.Options{IncludeFullName: true})

	require.Equal(t, 7, raw.Id)
	require.Equal(t, entry.Link, raw.Link)
	require.Equal(t, "  1.2 GB \n", raw.Size)

	clean := dataset.Normalize(raw)
	require.Equal(t, "1.2 GB", clean.Size)
	require.Equal(t, "foo/bar", *clean.FullName)
	require.Equal(t, "Dataset Card for bar A small dataset of things.", clean.Description)
	require.Equal(t, []string{"Text", "Image"}, clean.Modalities)
	require.Equal(t, []string{"Datasets", "pandas", "Croissant"}, clean.Libraries)
}

func TestRecordEmptyMarkup(t *testing.T) {
	entry := dataset.Entry{Id: 1, Link: "https://hf.example/datasets/none"}
	r := Record(context.Background(), entry, "", dataset.Options{IncludeFullName: true})

	expected := dataset.Record{
		Id:          1,
		Link:        entry.Link,
		FullName:    ptr("/"),
		Size:        dataset.NoSize,
		Description: dataset.NoDescription,
		Modalities:  []string{},
		Formats:     []string{},
		Tags:        []string{},
		Libraries:   []string{},
	}
	if diff := cmp.Diff(expected, r); diff != "" {
		t.Fatal(diff)
	}
}

// Removing a single anchor must only affect the field it leads to.
func TestMissingAnchors(t *testing.T) {
	full := extractMarkup(t, datasetPageTest)

	testCases := []struct {
		name    string
		replace [2]string
		// all replaces every occurrence instead of the first.
		all   bool
		apply func(f *dataset.Fields)
	}{
		{
			name:    "creator container",
			replace: [2]string{`class="group flex flex-none items-center"`, `class="group"`},
			apply:   func(f *dataset.Fields) { f.Creator = nil },
		},
		{
			name:    "name link",
			replace: [2]string{`class="break-words font-mono font-semibold hover:text-blue-600"`, `class="other"`},
			apply:   func(f *dataset.Fields) { f.Name = nil },
		},
		{
			name:    "description",
			replace: [2]string{`class="2xl:pr-6"`, `class="pr-6"`},
			apply:   func(f *dataset.Fields) { f.Description = nil },
		},
		{
			name:    "size label text",
			replace: [2]string{"Size of downloaded dataset files:", "Size of files:"},
			apply:   func(f *dataset.Fields) { f.Size = nil },
		},
		{
			name:    "size value element",
			replace: [2]string{`class="truncate text-sm"`, `class="text-sm"`},
			all:     true,
			apply:   func(f *dataset.Fields) { f.Size = nil },
		},
		{
			name:    "modalities label",
			replace: [2]string{"Modalities:", "Kinds:"},
			apply:   func(f *dataset.Fields) { f.Modalities = []string{} },
		},
		{
			name:    "formats label",
			replace: [2]string{"Formats:", "Shapes:"},
			apply:   func(f *dataset.Fields) { f.Formats = []string{} },
		},
		{
			name:    "tags label",
			replace: [2]string{"Tags:", "Labels:"},
			apply:   func(f *dataset.Fields) { f.Tags = []string{} },
		},
		{
			name:    "libraries label",
			replace: [2]string{"Libraries:", "Tools:"},
			apply:   func(f *dataset.Fields) { f.Libraries = []string{} },
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			n := 1
			if test.all {
				n = -1
			}
			markup := strings.Replace(datasetPageTest, test.replace[0], test.replace[1], n)
			require.NotEqual(t, datasetPageTest, markup)

			expected := full
			test.apply(&expected)

			if diff := cmp.Diff(expected, extractMarkup(t, markup)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestSizeValueMissing(t *testing.T) {
	markup := `<div class="truncate text-xs text-gray-400">Size of downloaded dataset files:</div>`
	fields := extractMarkup(t, markup)
	require.Nil(t, fields.Size)

	r := dataset.NewRecord(dataset.Entry{Id: 1, Link: "x"}, fields, dataset.Options{})
	require.Equal(t, dataset.NoSize, r.Size)
	require.Equal(t, dataset.NoDescription, r.Description)
}

func TestSizeSibling(t *testing.T) {
	markup := `<div><div class="truncate text-xs text-gray-400">Size of downloaded dataset files:</div>` +
		"<div class=\"truncate text-sm\">  1.2 GB \n</div></div>"
	raw := dataset.NewRecord(dataset.Entry{Id: 1, Link: "x"}, extractMarkup(t, markup), dataset.Options{})
	require.Equal(t, "  1.2 GB \n", raw.Size)
	require.Equal(t, "1.2 GB", dataset.Normalize(raw).Size)
}

func TestCategoryWithoutContainer(t *testing.T) {
	markup := `<div class="flex">
		<span class="mb-1 mr-1 p-1 text-sm leading-tight text-gray-400 md:mb-1.5">Tags:</span>
		<a class="mb-1 mr-1 md:mb-1.5 md:mr-1.5 rounded-lg">orphan</a>
	</div>`
	doc, err := htmlutil.ParseString(markup)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{}, Category(doc, CategoryTags))
	require.Equal(t, []string{}, Category(doc, CategoryModalities))
}
