package parser

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	htmlContent := `
<!DOCTYPE html>
<html>
<body>
	<a href="/about">About</a>
	<a href="page.html">Relative</a>
	<a href="https://external.com/page">External</a>
	<a href="#section">Fragment</a>
	<a href="mailto:someone@example.com">Mail</a>
	<a href="tel:+123456">Phone</a>
	<a href="javascript:void(0)">JS</a>
	<a href="data:text/plain,hello">Data</a>
	<a href="ftp://example.com/file">FTP</a>
	<a>No href</a>
	<a href="/about">About again</a>
</body>
</html>`

	p, err := NewHTMLParser("https://example.com/docs/index.html")
	if err != nil {
		t.Fatalf("NewHTMLParser failed: %v", err)
	}

	links, err := p.ExtractLinks(htmlContent)
	if err != nil {
		t.Fatalf("ExtractLinks failed: %v", err)
	}

	expected := []string{
		"https://example.com/about",
		"https://example.com/docs/page.html",
		"https://external.com/page",
		"https://example.com/about",
	}
	if !reflect.DeepEqual(links, expected) {
		t.Errorf("ExtractLinks = %v, want %v", links, expected)
	}
}

func TestExtractLinksEmptyDocument(t *testing.T) {
	p, err := NewHTMLParser("https://example.com")
	if err != nil {
		t.Fatalf("NewHTMLParser failed: %v", err)
	}

	links, err := p.ExtractLinks("<html><body><p>no links</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractLinks failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Scripts and styles stripped",
			html:     `<html><head><style>p{color:red}</style></head><body><script>var x=1;</script><p>visible   text</p><noscript>enable js</noscript></body></html>`,
			expected: "visible text",
		},
		{
			name:     "Whitespace normalized across elements",
			html:     "<html><body><h1>Title</h1>\n\n<p>one\ttwo</p>\n<div>three</div></body></html>",
			expected: "Title one two three",
		},
		{
			name:     "Empty body",
			html:     "<html><body></body></html>",
			expected: "",
		},
		{
			name:     "Fragment without body tag",
			html:     "plain words only",
			expected: "plain words only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VisibleText(tt.html)
			if err != nil {
				t.Fatalf("VisibleText failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("VisibleText = %q, want %q", got, tt.expected)
			}
		})
	}
}
