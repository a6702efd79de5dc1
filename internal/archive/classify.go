package archive

import (
	"path"
	"path/filepath"
	"strings"
)

// Classify decides how the file at rel (relative to the archive root) is
// processed. It returns false for files the engine does not model.
//
// Files under a message root are conversations unless explicitly excluded,
// because conversation files have unpredictable names. Everywhere else only
// exact registered filenames are recognized.
func Classify(rel string) (Route, bool) {
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)
	if !strings.EqualFold(path.Ext(name), ".json") {
		return Route{}, false
	}

	if underMessages(rel) {
		if messageExcludes[name] {
			return Route{}, false
		}
		return Route{Split: SplitMessages, Dialect: MessageDialect}, true
	}

	r, ok := registry[name]
	return r, ok
}

func underMessages(rel string) bool {
	dir := path.Dir(rel)
	for _, root := range messageRoots {
		if dir == root || strings.HasPrefix(dir, root+"/") {
			return true
		}
	}
	return false
}
