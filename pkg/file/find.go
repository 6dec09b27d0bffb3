package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListByExt returns the regular files directly inside dir whose extension
// matches ext, case-insensitively, sorted by name. Subdirectories are not walked.
func ListByExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	ext = normalizeExt(ext)
	var ret []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		ret = append(ret, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(ret)
	return ret, nil
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
