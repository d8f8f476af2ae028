package japanese

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanText collapses runs of whitespace into single spaces and trims the
// result.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TextLine strips HTML markup from a field value and returns its text content
// as a single cleaned line. Record fields usually carry markup from the
// editor, so this runs before any character extraction.
func TextLine(fieldHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fieldHTML))
	var builder strings.Builder
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			return CleanText(builder.String())
		case html.TextToken:
			builder.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			// Block-ish breaks become spaces so words don't run together.
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br", "div", "p", "li", "tr":
				builder.WriteByte(' ')
			}
		}
	}
}
