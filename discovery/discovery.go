// Package discovery locates protobuf schema files beneath a directory.
package discovery

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dankeboy36/ardunno-cli-gen/lib/fsext"
)

// ErrNotDirectory reports that the searched path does not name an existing
// directory. It is distinct from an existing directory that simply
// contains no proto files, which yields an empty result instead.
var ErrNotDirectory = errors.New("not a directory")

// FindProtoFiles recursively collects every *.proto file under dir and
// returns their paths relative to dir. The order of the result is not
// significant.
func FindProtoFiles(fs fsext.Fs, dir string) ([]string, error) {
	isDir, err := fsext.IsDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotDirectory
		}
		return nil, err
	}
	if !isDir {
		return nil, ErrNotDirectory
	}

	files := []string{}
	err = fsext.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		matched, err := filepath.Match("*.proto", info.Name())
		if err != nil || !matched {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
