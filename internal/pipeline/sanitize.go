package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// stripHTML drops markup from notes text coming out of the PocketBase rich
// text editor, keeping only the text nodes. Plain text passes through
// untouched.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
