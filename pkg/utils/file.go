package utils

import (
	"regexp"
	"strings"
)

// SanitizeFilename makes a string safe to use as a download filename.
func SanitizeFilename(filename string) string {
	filename = strings.Replace(filename, "\"", "", -1)
	filename = strings.Replace(filename, ".", "_", -1)

	allowedPattern := regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)

	// Replace spaces with underscores
	filename = strings.ReplaceAll(filename, " ", "_")

	// Remove all characters not allowed in the pattern
	filename = allowedPattern.ReplaceAllString(filename, "")

	if len(filename) > 150 {
		filename = filename[:150]
	}
	return filename
}
