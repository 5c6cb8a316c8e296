package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the path of the local override file for `name`,
// `config.json5` becomes `config.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	if ext == "" {
		return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local", prefixname))
	}
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// os.ErrNotExist is returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readInto(name, &out)
	if err != nil {
		return out, err
	}
	return out, finish(name, &out, found)
}

// ReadConfigOr is ReadConfig but starts from `defaults`, keys missing from
// the files keep their default values and missing files are not an error.
func ReadConfigOr[T any](name string, defaults T) (T, error) {
	out := defaults
	found, err := readInto(name, &out)
	if err != nil {
		return defaults, err
	}
	err = finish(name, &out, found)
	if os.IsNotExist(err) {
		slog.Debug("no config file found, using defaults", "name", name)
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}
	return out, nil
}

func readInto[T any](name string, out *T) (bool, error) {
	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if len(defaultFile) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(defaultFile, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

func finish[T any](name string, out *T, found bool) error {
	localFilepath := LocalPath(name)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(localFile) > 0 {
		// keys absent from the local file keep their current value, keys
		// present override it even when set to a zero value.
		override := *out
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(out, override, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue)
		if err != nil {
			return err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		found = true
	}

	if !found {
		return os.ErrNotExist
	}
	return nil
}
