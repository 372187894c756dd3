// Package utils contains general helper functions used across the snapshot tool.
package utils

// NormalizePath ensures a path separator immediately follows a Windows drive
// letter, so "C:Users" becomes "C:\Users". Every other path is returned
// unchanged. The function is idempotent: applying it twice yields the same
// result as applying it once.
func NormalizePath(path string) string {
	if !hasDriveLetterPrefix(path) {
		return path
	}
	if len(path) == 2 {
		return path + `\`
	}
	if path[2] == '\\' || path[2] == '/' {
		return path
	}
	return path[:2] + `\` + path[2:]
}

// hasDriveLetterPrefix reports whether the path starts with a single ASCII
// letter followed by a colon.
func hasDriveLetterPrefix(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	letter := path[0]
	return (letter >= 'a' && letter <= 'z') || (letter >= 'A' && letter <= 'Z')
}
