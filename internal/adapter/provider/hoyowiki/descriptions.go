// Package hoyowiki reads character detail snapshots of the HoYoLAB wiki.
//
// The pages are rendered client-side; a browser-automation step saves each
// locale rendering as static HTML plus a JSON list of the items it had to
// read interactively (skill tabs). This package only reads those files.
package hoyowiki

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// The section id starts with a digit, which an #id selector cannot express.
const (
	descriptionItemSelector  = "[id='4_summaryList'] .list_XeCAT .item_BL74W"
	descriptionTitleSelector = ".name_ddrhh"
	descriptionBodySelector  = ".ProseMirror"
)

// ParseDescriptions extracts the description list (mindscape cinema) of a
// rendered character page, in page order. Items without a body are skipped.
func ParseDescriptions(r io.Reader) ([]domain.ContentItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, domain.Malformed("detail html", err)
	}

	var items []domain.ContentItem
	doc.Find(descriptionItemSelector).Each(func(_ int, item *goquery.Selection) {
		body := item.Find(descriptionBodySelector).First()
		if body.Length() == 0 {
			return
		}
		items = append(items, domain.ContentItem{
			Kind:  domain.KindDescription,
			Title: strings.TrimSpace(item.Find(descriptionTitleSelector).First().Text()),
			Body:  joinedText(body),
		})
	})
	return items, nil
}

// joinedText returns the selection's text nodes, each trimmed, joined by a
// single space. Paragraph breaks in rich text would otherwise glue words.
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
