package preview_engine

import (
	"strings"

	"golang.org/x/net/html"
)

// getAttr returns the value of an attribute on a node, matching the key
// case-insensitively (foreign-content attributes keep their case).
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// hasAttr checks if a node has a specific attribute.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return true
		}
	}
	return false
}

// setAttr replaces or appends an attribute value.
func setAttr(n *html.Node, key string, val string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// removeAttr drops an attribute if present.
func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, attr := range n.Attr {
		if !strings.EqualFold(attr.Key, key) {
			out = append(out, attr)
		}
	}
	n.Attr = out
}

// removeNode detaches a node from its parent.
func removeNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// walkElements visits every element node in the subtree. The visitor runs
// before descending, so it may mutate attributes freely; it must not detach
// the visited node's siblings.
func walkElements(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walkElements(c, visit)
		c = next
	}
}

// findElements collects element nodes matching the tag name.
func findElements(root *html.Node, tag string) []*html.Node {
	var results []*html.Node
	walkElements(root, func(n *html.Node) {
		if strings.EqualFold(n.Data, tag) {
			results = append(results, n)
		}
	})
	return results
}

// textContent concatenates all descendant text nodes.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// setTextContent replaces the children of a node with a single text node.
func setTextContent(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
