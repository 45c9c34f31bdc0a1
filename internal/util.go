package internal

import (
	"bufio"
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var autogenRegex = regexp.MustCompile(`(?m)^// Code generated .* DO NOT EDIT\.$`)

// inputExtensions is kept sorted for strContains.
var inputExtensions = []string{".rs", ".txtar"}

func must(f func() error) {
	if err := f(); err != nil {
		log.Fatal(err)
	}
}

func strContains(haystack []string, needle string) bool {
	i := sort.SearchStrings(haystack, needle)
	return i < len(haystack) && haystack[i] == needle
}

func fileExists(path string) bool {
	res, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !res.IsDir()
}

func isGenerated(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0644)
	if err != nil {
		return false, errors.Wrapf(err, "could not open %v for reading", path)
	}
	defer must(f.Close)
	return autogenRegex.MatchReader(bufio.NewReader(f)), nil
}

// expandPaths replaces each directory with the inputs it holds. Previous outputs are
// skipped.
func expandPaths(paths []string, suffix string) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read input %v", path)
		}
		if !info.IsDir() {
			out = append(out, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not list %v", path)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasSuffix(name, suffix) || !strContains(inputExtensions, filepath.Ext(name)) {
				continue
			}
			out = append(out, filepath.Join(path, name))
		}
	}
	return out, nil
}

// dedupe drops repeated names, keeping the first of each.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// goPackageName turns a directory name into a usable package name.
func goPackageName(dir string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return -1
	}, filepath.Base(dir))
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "mirror" + name
	}
	return name
}
