package share

import (
	"regexp"
	"strings"
)

// urlPattern accepts bare domains ("example.com/x") as well as full
// http(s) URLs, so pasted links open even without a scheme.
var urlPattern = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[a-zA-Z]{2,}(:\d+)?(/\S*)?$`)

// ContentLink returns the opening URL for a note whose whole content is
// URL-shaped, or "" when the content is not a link. Scheme-less links are
// normalized to https.
func ContentLink(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	if !urlPattern.MatchString(trimmed) {
		return ""
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}
