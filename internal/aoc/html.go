package aoc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// articleText returns the text of the first paragraph of the page's main
// article, which is where the service puts its verdict.
func articleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse response html: %w", err)
	}

	node := doc
	for _, tag := range []string{"main", "article", "p"} {
		node = findElement(node, tag)
		if node == nil {
			return "", errors.New("response has no main > article > p element")
		}
	}

	return strings.TrimSpace(textContent(node)), nil
}

// findElement returns the first element named tag below n in document order.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
