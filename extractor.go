package sitetext

// ExtractResult holds the text extracted from an HTML page.
type ExtractResult struct {
	// Title is the trimmed page title, or empty if the page has none.
	Title string

	// Body is the visible body text with fragments joined by single spaces.
	Body string
}

// Text collapses the result into a single string: the title, a blank line,
// then the body. Without a title the body is returned alone.
func (r *ExtractResult) Text() string {
	if r.Title == "" {
		return r.Body
	}
	return r.Title + "\n\n" + r.Body
}

// Extractor turns raw HTML into readable text.
type Extractor interface {
	// Extract parses html and returns its title and body text.
	// Malformed or empty input degrades to empty strings; it never fails.
	Extract(html string) *ExtractResult
}
