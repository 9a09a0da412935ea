package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() rendering of out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. Major version suffixes ("/v2") are
// skipped, matching how the go tool names such packages by default.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." && dir != "/" {
			return path.Base(dir)
		}
	}

	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	return strings.Trim(s[1:], "0123456789") == ""
}

// GeneratedMarker is the first comment line of every file this tool writes.
const GeneratedMarker = "// Code generated by factory-generator. DO NOT EDIT."
