package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/svoya-igra/gamebot/pkg/utils"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString strips control bytes and caps the length of user text
// before it is re-embedded in outgoing messages. The cap is rune-based so
// multibyte text is never cut mid-character.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return utils.TruncateText(input, 1000)
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeUserText is applied to free-text answers before they travel to
// the master's judgment prompt.
func SanitizeUserText(input string) string {
	return SanitizeString(SanitizeHTML(input))
}
