package notes

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var calendarFilenamePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^(\d{8})$`), "20060102"},
	{regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`), "2006-01-02"},
	{regexp.MustCompile(`^day-(\d{8})$`), "20060102"},
}

// NormalizePath converts Windows-style separators to the current platform's
// separator and cleans the result.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns target relative to the vault using forward slashes.
func VaultRelative(vaultDir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(vaultDir), NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// DateFromFilename extracts the calendar date from a daily note filename.
// Accepted stems are YYYYMMDD, YYYY-MM-DD and the journal form day-YYYYMMDD.
func DateFromFilename(name string) (time.Time, bool) {
	base := stem(name)
	for _, p := range calendarFilenamePatterns {
		match := p.re.FindStringSubmatch(base)
		if match == nil {
			continue
		}
		parsed, err := time.Parse(p.layout, match[1])
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func stem(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
