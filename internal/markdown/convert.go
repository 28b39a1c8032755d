// Package markdown converts judge-site HTML fragments into Markdown-flavored text.
package markdown

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the judge site origin used to resolve relative image sources.
const DefaultBaseURL = "https://www.acmicpc.net"

// Convert renders the first element of sel as trimmed Markdown text.
// An empty selection yields an empty string.
func Convert(sel *goquery.Selection, baseURL string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return ConvertNode(sel.Nodes[0], baseURL)
}

// ConvertNode renders n and its descendants as trimmed Markdown text.
// An element without any child nodes falls back to its flattened text.
func ConvertNode(n *html.Node, baseURL string) string {
	if n == nil {
		return ""
	}
	if n.FirstChild == nil {
		return strings.TrimSpace(flattenText(n))
	}
	return strings.TrimSpace(convertNode(n, baseURL))
}

func convertNode(n *html.Node, baseURL string) string {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return ""
		}
		return n.Data
	case html.ElementNode:
		return convertElement(n, baseURL)
	case html.DocumentNode:
		return convertChildren(n, baseURL)
	default:
		return ""
	}
}

func convertChildren(n *html.Node, baseURL string) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(convertNode(c, baseURL))
	}
	return sb.String()
}

func convertElement(n *html.Node, baseURL string) string {
	switch strings.ToLower(n.Data) {
	case "sup":
		return "^{" + convertChildren(n, baseURL) + "}"
	case "sub":
		return "<sub>" + convertChildren(n, baseURL) + "</sub>"
	case "strong", "b":
		return "**" + convertChildren(n, baseURL) + "**"
	case "em", "i":
		return "*" + convertChildren(n, baseURL) + "*"
	case "br":
		return "\n"
	case "code":
		return "`" + convertChildren(n, baseURL) + "`"
	case "p":
		return block(convertChildren(n, baseURL), "\n")
	case "div":
		return block(convertChildren(n, baseURL), "\n\n")
	case "pre":
		inner := strings.Trim(convertChildren(n, baseURL), "\r\n")
		if strings.TrimSpace(inner) == "" {
			return ""
		}
		return "```\n" + inner + "\n```\n\n"
	case "ul", "ol":
		return convertList(n, baseURL)
	case "img":
		return convertImage(n, baseURL)
	default:
		// span and unknown tags are transparent
		return convertChildren(n, baseURL)
	}
}

// block appends suffix to non-empty content only, so empty containers leave no blank lines.
func block(inner, suffix string) string {
	if strings.TrimSpace(inner) == "" {
		return ""
	}
	return inner + suffix
}

func convertList(n *html.Node, baseURL string) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || strings.ToLower(c.Data) != "li" {
			continue
		}
		item := strings.TrimSpace(convertChildren(c, baseURL))
		if item == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func convertImage(n *html.Node, baseURL string) string {
	src, ok := attr(n, "src")
	if !ok {
		return ""
	}
	alt, _ := attr(n, "alt")
	return "![" + alt + "](" + ResolveURL(src, baseURL) + ")"
}

// ResolveURL makes an image source absolute against the judge site's base URL.
func ResolveURL(src, baseURL string) string {
	src = strings.TrimSpace(src)
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return origin(base) + src
	case isAbsolute(src):
		return src
	default:
		return base + "/" + src
	}
}

func origin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return base
	}
	return u.Scheme + "://" + u.Host
}

func isAbsolute(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func flattenText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(flattenText(c))
	}
	return sb.String()
}
