// Package sitedata loads the inputs templates render from: data files and
// front-matter collections.
package sitedata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

var dataExtensions = map[string]struct{}{
	".yml":  {},
	".yaml": {},
	".json": {},
}

// LoadDataDir decodes every data file in dir, keyed by file name without
// extension. JSON is decoded with the YAML decoder. A missing directory yields
// an empty map. Subdirectories are ignored.
func LoadDataDir(dir string) (map[string]any, error) {
	data := map[string]any{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read data directory").
			WithContext("path", dir).
			Build()
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := dataExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if _, dup := data[key]; dup {
			return nil, ferrors.DataError("duplicate data key").
				WithContext("key", key).
				WithContext("file", name).
				Build()
		}
		v, err := LoadDataFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		data[key] = v
	}
	return data, nil
}

// LoadDataFile decodes a single YAML or JSON file.
func LoadDataFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read data file").
			WithContext("file", path).
			Build()
	}

	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryData, "decode data file").
			WithContext("file", path).
			Build()
	}
	return v, nil
}

// Lookup returns the value at a dotted key path such as "reviews.movies".
// An empty key returns v itself.
func Lookup(v any, key string) (any, bool) {
	if key == "" {
		return v, true
	}
	cur := v
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
