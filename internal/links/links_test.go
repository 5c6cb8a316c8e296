package links

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	links := Parse([]byte("https://hf.example/datasets/foo/bar\n\n  \nhttps://hf.example/datasets/baz/qux"))
	require.Equal(t, []string{
		"https://hf.example/datasets/foo/bar",
		"https://hf.example/datasets/baz/qux",
	}, links)

	require.Empty(t, Parse(nil))
	require.Equal(t, []string{"a", "b"}, Parse([]byte("  a \r\n\tb\t\r\n")))
}

func TestParseLongLine(t *testing.T) {
	long := "https://b.example/" + strings.Repeat("x", 2*1024*1024)
	links := Parse([]byte("https://a.example/1\n" + long + "\nhttps://c.example/3\n"))
	require.Equal(t, []string{"https://a.example/1", long, "https://c.example/3"}, links)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	writeFile(t, path, "https://hf.example/datasets/foo/bar\n\n  \nhttps://hf.example/datasets/baz/qux\n")

	f, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "text", f.Name)
	require.Equal(t, path, f.Path)
	require.Len(t, f.Links, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_audio.txt"), "https://b/1\nhttps://b/2\n")
	writeFile(t, filepath.Join(dir, "a_text.txt"), "https://a/1\n")
	err := os.Mkdir(filepath.Join(dir, "nested"), 0700)
	if err != nil {
		t.Fatal(err)
	}

	files, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "a_text", files[0].Name)
	require.Equal(t, "b_audio", files[1].Name)
	require.Equal(t, []string{"https://a/1", "https://b/1", "https://b/2"}, Concat(files))

	_, err = ReadDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
