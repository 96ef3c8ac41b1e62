package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a deck found under the root directory.
type Entry struct {
	Namespace string
	Alias     string
	Path      string // data.json
}

// Key returns namespace/alias.
func (e Entry) Key() string {
	return e.Namespace + "/" + e.Alias
}

// Discover lists every <root>/<namespace>/<alias>/data.json, sorted by key.
// Hidden directories are skipped.
func Discover(root string) ([]Entry, error) {
	namespaces, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read deck root: %w", err)
	}
	var entries []Entry
	for _, ns := range namespaces {
		if !ns.IsDir() || strings.HasPrefix(ns.Name(), ".") {
			continue
		}
		aliases, err := os.ReadDir(filepath.Join(root, ns.Name()))
		if err != nil {
			return nil, fmt.Errorf("read namespace %s: %w", ns.Name(), err)
		}
		for _, alias := range aliases {
			if !alias.IsDir() || strings.HasPrefix(alias.Name(), ".") {
				continue
			}
			path := Locate(root, ns.Name(), alias.Name())
			if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
				continue
			}
			entries = append(entries, Entry{Namespace: ns.Name(), Alias: alias.Name(), Path: path})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})
	return entries, nil
}

// ParseKey splits "namespace/alias".
func ParseKey(key string) (string, string, error) {
	ns, alias, ok := strings.Cut(strings.Trim(strings.TrimSpace(key), "/"), "/")
	if !ok || ns == "" || alias == "" || strings.Contains(alias, "/") {
		return "", "", fmt.Errorf("deck must be given as namespace/alias, got %q", key)
	}
	if ns == ".." || alias == ".." || ns == "." || alias == "." {
		return "", "", errors.New("deck namespace and alias must be plain directory names")
	}
	return ns, alias, nil
}
