package sync

import (
	"errors"
	"strings"
)

const defaultIndent = "  "

var (
	ErrNoRootBrace = errors.New("root closing brace not found")
	ErrRootShape   = errors.New("unexpected format before root closing brace")
)

// DetectIndent returns the leading whitespace of the first line that looks
// like a quoted key, falling back to two spaces.
func DetectIndent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(stripped, `"`) || !strings.Contains(stripped, ":") {
			continue
		}
		return line[:strings.Index(line, `"`)]
	}
	return defaultIndent
}

// InsertBeforeRootClose splices pre-rendered entry text into a JSON object
// document immediately before the newline that precedes the root closing
// brace. Every byte of the original document is preserved; the comma lands
// on the last existing entry's closing line.
//
// The document must end with its root brace on its own line. Anything else
// (a minified file, a non-object root) fails with a sentinel error so the
// caller can skip the target.
func InsertBeforeRootClose(content, entries string) (string, error) {
	rootClose := len(content) - 1
	for rootClose >= 0 && isJSONSpace(content[rootClose]) {
		rootClose--
	}
	if rootClose < 0 || content[rootClose] != '}' {
		return "", ErrNoRootBrace
	}

	insertAt := rootClose - 1
	if insertAt < 0 || content[insertAt] != '\n' {
		return "", ErrRootShape
	}

	return content[:insertAt] + ",\n" + entries + "\n" + content[insertAt:], nil
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
