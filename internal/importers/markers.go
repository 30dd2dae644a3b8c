package importers

import (
	"regexp"
	"strconv"
	"strings"
)

// Third-party exports encode section headings as ordinary rows whose text
// ends in a ".hN" tag (N in 1..6). ParseTextNode is the single place that
// marker syntax is interpreted; everything downstream works with the tagged
// variant instead of sniffing strings.

// TextNode is the parsed form of a row's text field: either a section
// heading at some depth or plain highlight text.
type TextNode struct {
	Heading bool
	Depth   int    // 1..6, set only when Heading
	Text    string // marker stripped, whitespace trimmed
}

var headingTagPattern = regexp.MustCompile(`\.h([1-6])$`)

// ParseTextNode classifies a raw text field. A trailing heading tag turns
// the row into a heading node; anything else is highlight text as-is.
func ParseTextNode(raw string) TextNode {
	trimmed := strings.TrimSpace(raw)

	match := headingTagPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return TextNode{Text: trimmed}
	}

	depth, err := strconv.Atoi(match[1])
	if err != nil {
		// Unreachable given the pattern, but a heading with no depth is
		// safer treated as plain text than dropped.
		return TextNode{Text: trimmed}
	}

	label := strings.TrimSpace(strings.TrimSuffix(trimmed, match[0]))
	if label == "" {
		// A bare ".h2" row labels nothing; keep it as literal text so the
		// row is not silently lost.
		return TextNode{Text: trimmed}
	}

	return TextNode{Heading: true, Depth: depth, Text: label}
}
