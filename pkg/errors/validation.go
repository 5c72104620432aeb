package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateDatasetName validates a dataset name from the catalog.
// Dataset names become file names under the graph directory, so the rules
// reject anything that could escape it:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dataset name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "dataset name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dataset name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "dataset name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// abbrevRegex matches dataset abbreviations such as "LJ" or "IN04".
var abbrevRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,16}$`)

// ValidateAbbreviation validates a short dataset alias.
func ValidateAbbreviation(abbrev string) error {
	if !abbrevRegex.MatchString(abbrev) {
		return New(ErrCodeInvalidInput, "invalid dataset abbreviation: %q", abbrev)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host: %q", rawURL)
	}

	return nil
}
