// Package markdown edits generated sections inside hand-written documents.
package markdown

import "strings"

const (
	StartMarker = "<!-- blazectl:start -->"
	EndMarker   = "<!-- blazectl:end -->"
)

// HasManagedBlock reports whether body carries both markers in order.
func HasManagedBlock(body, startMarker, endMarker string) bool {
	start := strings.Index(body, startMarker)
	return start >= 0 && strings.Index(body[start:], endMarker) > 0
}

// ReplaceManagedBlock swaps the text between the markers for generated,
// appending a fresh block when body has none.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := -1
	if start >= 0 {
		if rel := strings.Index(body[start:], endMarker); rel > 0 {
			end = start + rel
		}
	}
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	if end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
