// Package parser extracts links and visible text from rendered HTML.
// The input is the serialized DOM of a page after script execution,
// so everything client-side scripts injected is already present.
package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipPrefixes are href values that never lead to a fetchable document.
var skipPrefixes = []string{"#", "mailto:", "tel:", "javascript:", "data:"}

// HTMLParser extracts links from rendered HTML relative to a base URL.
type HTMLParser struct {
	baseURL *url.URL
}

// NewHTMLParser creates a parser resolving links against baseURL,
// which should be the final page URL after redirects.
func NewHTMLParser(baseURL string) (*HTMLParser, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &HTMLParser{baseURL: parsedURL}, nil
}

// ExtractLinks returns all absolute-resolved http(s) anchor targets in
// the document, in document order, duplicates included. Scope and
// dedup decisions belong to the frontier, not the parser.
func (p *HTMLParser) ExtractLinks(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []string
	p.traverse(doc, &links)
	return links, nil
}

// traverse recursively walks the HTML tree collecting anchor targets.
func (p *HTMLParser) traverse(n *html.Node, links *[]string) {
	if n.Type == html.ElementNode && n.Data == "a" {
		if link, ok := p.resolveAnchor(n); ok {
			*links = append(*links, link)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.traverse(c, links)
	}
}

// resolveAnchor turns an <a> node into an absolute http(s) URL.
func (p *HTMLParser) resolveAnchor(n *html.Node) (string, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}

	if href == "" {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := p.baseURL.ResolveReference(u)

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if resolved.Host == "" {
		return "", false
	}

	return resolved.String(), true
}

// VisibleText extracts the user-visible text of a rendered document:
// script, style, noscript and template contents are dropped, remaining
// text nodes are joined with single spaces and whitespace is collapsed.
func VisibleText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	body := doc.Find("body")
	if body.Length() > 0 {
		collectText(body, &b)
	} else {
		// Fragments without a <body> still carry text.
		collectText(doc.Selection, &b)
	}

	return strings.Join(strings.Fields(b.String()), " "), nil
}

// collectText appends the text nodes under s, space-separated.
func collectText(s *goquery.Selection, b *strings.Builder) {
	for _, node := range s.Nodes {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.TextNode {
				if t := strings.TrimSpace(n.Data); t != "" {
					b.WriteString(t)
					b.WriteByte(' ')
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(node)
	}
}
