package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type File struct {
	Path string // absolute or root-joined path
	Rel  string // slash-separated path relative to the archive root
	Name string
	Size int64
}

// Walk lists every regular .json file under root, sorted by Rel. The
// extension match ignores case, as archive.Classify does.
// Unreadable subdirectories are skipped; a missing root is an error.
func Walk(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("archive root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s: not a directory", root)
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, File{
			Path: path,
			Rel:  filepath.ToSlash(rel),
			Name: info.Name(),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}
