// Package naming renders ticket channel names from per-category templates.
package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxLength is the platform limit on channel name length.
const MaxLength = 100

var invalidChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// Replacements carries the values substituted into a naming template.
type Replacements struct {
	Number   int
	Username string
	UserID   string
	ShortID  string
	Category string
}

// Render substitutes the known tokens into template, strips every character
// outside [A-Za-z0-9_-] and truncates to MaxLength. Unknown tokens are left
// as literal text; their braces are removed by the character filter. Numeric
// counters are zero-padded to four digits; a negative Number means no counter
// was assigned and leaves the tokens alone.
func Render(template string, r Replacements) string {
	name := template

	if r.Number >= 0 {
		padded := fmt.Sprintf("%04d", r.Number)
		name = strings.ReplaceAll(name, "{num}", padded)
		name = strings.ReplaceAll(name, "{increment}", padded)
	}
	if r.Username != "" {
		name = strings.ReplaceAll(name, "{username}", r.Username)
	}
	if r.UserID != "" {
		name = strings.ReplaceAll(name, "{userid}", r.UserID)
	}
	if r.ShortID != "" {
		name = strings.ReplaceAll(name, "{id}", r.ShortID)
	}
	if r.Category != "" {
		name = strings.ReplaceAll(name, "{category}", r.Category)
	}

	name = invalidChars.ReplaceAllString(name, "")
	if len(name) > MaxLength {
		name = name[:MaxLength]
	}
	return name
}
