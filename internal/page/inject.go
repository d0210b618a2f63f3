package page

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// ParseDocument parses a full HTML page.
func ParseDocument(src []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Container returns the first element carrying the class named by selector
// (".publications-list" or "publications-list"), or nil.
func (d *Document) Container(selector string) *html.Node {
	class := strings.TrimPrefix(selector, ".")
	if class == "" {
		return nil
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// SetInner replaces the children of container with the parsed fragment.
func (d *Document) SetInner(container *html.Node, fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		container.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return nil
}

// Bytes renders the document back to HTML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Inject replaces the content of the element matching selector with
// fragment. When no element matches, src is returned unchanged with false.
func Inject(src []byte, selector, fragment string) ([]byte, bool, error) {
	doc, err := ParseDocument(src)
	if err != nil {
		return nil, false, err
	}
	container := doc.Container(selector)
	if container == nil {
		return src, false, nil
	}
	if err := doc.SetInner(container, fragment); err != nil {
		return nil, false, err
	}
	out, err := doc.Bytes()
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
