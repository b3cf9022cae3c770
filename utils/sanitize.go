package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// User-authored text is stored as plain text, so strip all markup.
var textPolicy = bluemonday.StrictPolicy()

// CleanText strips any HTML from user-authored text and trims surrounding
// whitespace. Message bodies, post text and comments all go through here
// before persisting.
func CleanText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
