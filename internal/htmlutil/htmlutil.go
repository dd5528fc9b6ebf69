// Package htmlutil implements the crawler's HTML-to-text and link
// extraction primitives: stripping block-level elements, collecting
// anchor hrefs in document order, and reducing a page down to plain text.
// It generalizes the inline tree walk the teacher wrote directly inside
// its article fetcher into a reusable, crawler-agnostic helper.
package htmlutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// blockElements are skipped entirely when collecting text or links: their
// subtrees contain markup, script or style content that is not part of the
// page's visible text.
var blockElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// ExtractLinks walks the document in order and returns every absolute
// http(s) URL found in an anchor's href attribute, resolved against base
// and de-duplicated while preserving first-seen order. Links inside
// stripped block elements are not considered.
func ExtractLinks(htmlStr string, base *url.URL) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := blockElements[n.Data]; skip {
				return
			}
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key != "href" {
						continue
					}
					abs, ok := resolve(base, attr.Val)
					if !ok {
						continue
					}
					if _, dup := seen[abs]; dup {
						continue
					}
					seen[abs] = struct{}{}
					out = append(out, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if abs.Host == "" {
		return "", false
	}
	return abs.String(), true
}

// StripTags reduces an HTML document to its visible text: all tags and
// entities are removed, and block elements (script/style/...) are skipped
// entirely rather than having their contents leak into the output.
func StripTags(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := blockElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				b.WriteString(trimmed)
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}

// CleanURL strips the fragment from rawURL and returns its canonical
// string form, re-encoding the query the way net/url normalizes it.
func CleanURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	if u.RawQuery != "" {
		values, err := url.ParseQuery(u.RawQuery)
		if err == nil {
			u.RawQuery = values.Encode()
		}
	}
	return u.String(), nil
}
