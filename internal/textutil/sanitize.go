package textutil

import (
	"strings"
	"unicode"
)

// pathReplacer replaces filesystem-unsafe characters with safe alternatives.
var pathReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizePathComponent makes name usable as a single path component.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control characters are removed. Leading/trailing whitespace
// and trailing dots are trimmed. The result is empty when nothing usable
// remains, including for "." and "..".
func SanitizePathComponent(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(pathReplacer.Replace(name))
	name = strings.TrimRight(name, ". ")
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}
