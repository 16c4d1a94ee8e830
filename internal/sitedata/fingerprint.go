package sitedata

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

// Fingerprint hashes the contents of every regular file under dirs. Missing
// directories contribute nothing. Two calls return the same value exactly
// when no watched file was added, removed, renamed or changed.
func Fingerprint(dirs ...string) (string, error) {
	var manifest strings.Builder
	var body strings.Builder

	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)

	for _, dir := range sorted {
		var files []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return fs.SkipDir
				}
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk input directory").
				WithContext("path", dir).
				Build()
		}

		for _, f := range files {
			content, err := os.ReadFile(f)
			if err != nil {
				return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read input file").
					WithContext("file", f).
					Build()
			}
			fileFP := mdfp.CalculateFingerprintFromParts("", string(content))
			manifest.WriteString(filepath.ToSlash(f))
			manifest.WriteString(" ")
			manifest.WriteString(fileFP)
			manifest.WriteString("\n")
			body.WriteString(fileFP)
		}
	}

	return mdfp.CalculateFingerprintFromParts(manifest.String(), body.String()), nil
}
