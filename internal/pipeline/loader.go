package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Loader reads exported claim documents from disk. Plain text is
// passed through; HTML exports are reduced to their visible text.
// PDF and scanned images are out of scope: those arrive here already
// converted to text by the document chain.
type Loader struct {
	maxBytes int64
}

// DefaultMaxDocumentBytes caps how much of a claim file is read
const DefaultMaxDocumentBytes = 2 << 20 // 2 MiB

// NewLoader creates a loader with the given size cap (0 = default)
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &Loader{maxBytes: maxBytes}
}

// Load reads one claim document and returns its text content and a
// document ID derived from the file name
func (l *Loader) Load(path string) (docID, text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, l.maxBytes))
	if err != nil {
		return "", "", fmt.Errorf("read document: %w", err)
	}

	text = string(raw)
	if looksLikeHTML(path, text) {
		stripped, err := visibleText(text)
		if err != nil {
			return "", "", fmt.Errorf("parse html document: %w", err)
		}
		text = stripped
	}

	base := filepath.Base(path)
	docID = strings.TrimSuffix(base, filepath.Ext(base))
	return docID, text, nil
}

// looksLikeHTML sniffs by extension first, content second
func looksLikeHTML(path, text string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	head := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}
