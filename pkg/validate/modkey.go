package validate

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

const invalidFileNameChars = `<>:"/\|?*`

var pluginExtensions = []string{".esp", ".esm", ".esl"}

func validateModKey(modKey string) error {
	if strings.TrimSpace(modKey) == "" {
		return compileerr.Schema("modKey", "modKey must be a non-empty file name.")
	}
	if isRooted(modKey) {
		return compileerr.Schema("modKey", "modKey must not be rooted: %s", modKey)
	}
	if strings.ContainsAny(modKey, `/\`) {
		return compileerr.Schema("modKey", "modKey must be a file name only (no path segments): %s", modKey)
	}
	if strings.ContainsAny(modKey, invalidFileNameChars) || hasControlChar(modKey) {
		return compileerr.Schema("modKey", "modKey contains invalid file name characters: %s", modKey)
	}
	if strings.HasSuffix(modKey, " ") || strings.HasSuffix(modKey, ".") {
		return compileerr.Schema("modKey", "modKey must not end with space or dot: %s", modKey)
	}

	lower := strings.ToLower(modKey)
	for _, ext := range pluginExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return compileerr.Schema("modKey", "modKey must end with .esp/.esm/.esl (got: %s)", modKey)
}

// isRooted accepts both POSIX and Windows roots, since output is consumed on Windows.
func isRooted(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}
	return false
}

func hasControlChar(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}

func indexPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
