package htmlutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Node is a narrow query interface over a parsed markup tree. Every lookup
// reports absence through its boolean (or an empty slice) instead of an error,
// so callers can fall back field by field.
type Node interface {
	// FindFirst returns the first descendant matching selector.
	FindFirst(selector string) (Node, bool)
	// FindAll returns every descendant matching selector in document order.
	FindAll(selector string) []Node
	// Parent returns the nearest ancestor matching selector.
	Parent(selector string) (Node, bool)
	// Next returns the first element after this one in document order
	// matching selector.
	Next(selector string) (Node, bool)
	// Text returns the concatenated text content, untouched.
	Text() string
}

// ClassSelector builds a selector matching `tag` elements whose class
// attribute is exactly `class`.
func ClassSelector(tag, class string) string {
	return fmt.Sprintf(`%s[class="%s"]`, tag, strings.ReplaceAll(class, `"`, `\"`))
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Parse parses markup into a Node rooted at the document.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return selection{doc: doc, sel: doc.Selection}, nil
}

func ParseString(markup string) (Node, error) {
	return Parse(strings.NewReader(markup))
}

type selection struct {
	doc *goquery.Document
	sel *goquery.Selection
}

func (s selection) wrap(sel *goquery.Selection) (Node, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return selection{doc: s.doc, sel: sel.First()}, true
}

func (s selection) FindFirst(selector string) (Node, bool) {
	return s.wrap(s.sel.Find(selector))
}

func (s selection) FindAll(selector string) []Node {
	found := s.sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, child *goquery.Selection) {
		nodes = append(nodes, selection{doc: s.doc, sel: child})
	})
	return nodes
}

func (s selection) Parent(selector string) (Node, bool) {
	return s.wrap(s.sel.ParentsFiltered(selector))
}

func (s selection) Next(selector string) (Node, bool) {
	matcher, err := cascadia.Compile(selector)
	if err != nil || len(s.sel.Nodes) == 0 {
		return nil, false
	}
	for n := nextInDocument(s.sel.Nodes[0]); n != nil; n = nextInDocument(n) {
		if n.Type == html.ElementNode && matcher.Match(n) {
			return s.wrap(s.doc.FindNodes(n))
		}
	}
	return nil, false
}

func (s selection) Text() string {
	var out strings.Builder
	for _, n := range s.sel.Nodes {
		out.WriteString(GetText(n))
	}
	return out.String()
}

// nextInDocument walks the tree in pre-order, descending into children first.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}
