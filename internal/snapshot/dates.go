package snapshot

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// datePattern pins directory names to zero-padded YYYY-MM-DD so that lexical
// order is date order.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDate reports whether name is a valid calendar date in YYYY-MM-DD form.
func IsDate(name string) bool {
	if !datePattern.MatchString(name) {
		return false
	}
	_, err := time.Parse("2006-01-02", name)
	return err == nil
}

// ListDates returns the names of subdirectories of root that parse as
// calendar dates, sorted ascending. Incidental non-date directories are
// expected and skipped. A missing root is not an error: there is simply
// nothing to index.
func ListDates(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() && IsDate(e.Name()) {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// SelectWindow returns the trailing n dates (all of them when fewer exist).
func SelectWindow(dates []string, n int) []string {
	if n <= 0 || n >= len(dates) {
		return dates
	}
	return dates[len(dates)-n:]
}

// ListStoreFiles returns the per-store .json files in a date directory,
// sorted by name, excluding the reserved combined dump file.
func ListStoreFiles(dir, combined string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == combined {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Stem returns the file's base name without its .json extension, the
// conventional store scope of a per-store snapshot file.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}
