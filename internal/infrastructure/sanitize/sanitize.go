// Package sanitize strips markup from user-entered free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element and attribute from s and trims surrounding
// space. The result is plain text: entities the policy emits are decoded, so
// comparison signs, ampersands and quotes survive as typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Fields applies Text to each pointer target in place
func Fields(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = Text(*f)
		}
	}
}
