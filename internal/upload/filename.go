package upload

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// asciiFold decomposes compatibility characters and drops everything outside ASCII,
// so "café" becomes "cafe".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// SecureFilename reduces a client-supplied name to a flat, ASCII-only file name.
// Path separators become spaces, whitespace runs become "_", anything outside
// [A-Za-z0-9_.-] is removed and leading or trailing dots and underscores are trimmed.
// It can return "".
func SecureFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = ""
	}
	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeChars.ReplaceAllString(folded, "")
	return strings.Trim(folded, "._")
}

// Extension returns the lower-cased text after the last dot, or "" when there is none.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
