package commands

import (
	"hfscrape/internal/components/telemetry"
	"hfscrape/internal/fetcher"
	"hfscrape/internal/output"
	"hfscrape/internal/pipeline"
	"hfscrape/lib/configutil"
	"time"
)

type FetchConfig struct {
	TimeoutSeconds   int    `json:"timeout_seconds"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	DumpDir          string `json:"dump_dir"`
}

type Config struct {
	LinksDir string `json:"links_dir"`
	// LinksFile selects a single link file instead of LinksDir.
	LinksFile string `json:"links_file"`
	RawDir    string `json:"raw_dir"`
	CleanDir  string `json:"clean_dir"`

	Batching        pipeline.Batching `json:"batching"`
	BatchName       string            `json:"batch_name"`
	IncludeFullName bool              `json:"include_full_name"`

	Fetch FetchConfig `json:"fetch"`
	// SqlitePath additionally exports every batch to a sqlite file or a
	// libsql url when set.
	SqlitePath string `json:"sqlite_path"`

	Verbose   bool             `json:"verbose"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func DefaultConfig() Config {
	return Config{
		LinksDir:        "links",
		RawDir:          "data/raw",
		CleanDir:        "data/clean",
		Batching:        pipeline.BatchPerFile,
		BatchName:       pipeline.DefaultBatchName,
		IncludeFullName: true,
		Fetch: FetchConfig{
			TimeoutSeconds: int(fetcher.DefaultTimeout / time.Second),
			UserAgent:      fetcher.DefaultUserAgent,
		},
	}
}

func LoadConfig(path string) (Config, error) {
	return configutil.ReadConfigOr(path, DefaultConfig())
}

func (c Config) Source() pipeline.Source {
	return pipeline.Source{
		Dir:       c.LinksDir,
		File:      c.LinksFile,
		Batching:  c.Batching,
		BatchName: c.BatchName,
	}
}

func (c Config) Dirs() output.Dirs {
	return output.Dirs{Raw: c.RawDir, Clean: c.CleanDir}
}

func (c Config) FetchOptions() fetcher.Options {
	return fetcher.Options{
		Timeout:          time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		UserAgent:        c.Fetch.UserAgent,
		CloudflareBypass: c.Fetch.CloudflareBypass,
		DumpDir:          c.Fetch.DumpDir,
	}
}
