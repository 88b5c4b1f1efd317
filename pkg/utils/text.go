package utils

import "strings"

var markdownV2Replacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdownV2 escapes all characters reserved by Telegram's MarkdownV2
// parse mode so arbitrary user text can be embedded in a formatted message.
func EscapeMarkdownV2(input string) string {
	return markdownV2Replacer.Replace(input)
}

// TruncateText cuts a string to at most n runes.
func TruncateText(input string, n int) string {
	runes := []rune(input)
	if len(runes) <= n {
		return input
	}
	return string(runes[:n])
}
