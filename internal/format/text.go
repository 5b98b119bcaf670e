package format

import (
	"regexp"
	"strings"
)

const DefaultTruncateLength = 200

// Truncate shortens text to at most n runes, appending "..." when it cut
// anything. n <= 0 uses DefaultTruncateLength.
func Truncate(text string, n int) string {
	if n <= 0 {
		n = DefaultTruncateLength
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}

var reBracketURL = regexp.MustCompile(`\[([^\]]+)\]`)

// PostContentMarkdown converts post/message bodies to markdown: every
// "[something]" becomes an image reference and line breaks are kept as hard
// breaks.
func PostContentMarkdown(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	content = reBracketURL.ReplaceAllString(content, "![图片]($1)")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\n", "  \n")
}
