package fetcher

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

const report_fetcher_dump = "fetcher.dump"

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: response status
// 5: response headers in ("Key: Value" format)
// 6: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	return fmt.Sprintf(
		messageInfoTemplate,
		res.Request.Method, res.Request.URL,
		formatHeaders(res.Request.Header),
		strconv.Itoa(res.StatusCode()),
		formatHeaders(res.Header()),
		res.String(),
	)
}

// dumper writes every http exchange to its own numbered file, it is used to
// see exactly which markup a page was extracted from.
type dumper struct {
	directory string
	idcounter *uint64
}

func newDumper(dir string) (dumper, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return dumper{}, err
	}
	var idcounter uint64
	return dumper{directory: dir, idcounter: &idcounter}, nil
}

func (d dumper) path(id uint64) string {
	return filepath.Join(d.directory, fmt.Sprintf("%04d.txt", id))
}

func (d dumper) write(res *resty.Response) (string, error) {
	id := atomic.AddUint64(d.idcounter, 1)
	path := d.path(id)
	err := os.WriteFile(path, []byte(formatHttpMessage(res)), 0600)
	return path, err
}
