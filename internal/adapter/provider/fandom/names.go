package fandom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/heartmarshall/termbridge/internal/domain"
)

const (
	languageTableSelector = "table.article-table.alternating-colors-table"
	pageTitleSelector     = "h1.page-header__title"
)

// Names are the localized names found on an article.
type Names struct {
	Title    string
	English  string
	Japanese string
}

// Entry returns the names as a glossary entry.
func (n Names) Entry() domain.GlossaryEntry {
	return domain.NewGlossaryEntry(n.English, n.Japanese)
}

// ParseNames reads the English and Japanese rows of the article's language
// tables. When only the English name is present it is used for Japanese
// too. When no English name is present the page title is used for both if
// titleFallback is set; otherwise the page is absent.
func ParseNames(r io.Reader, titleFallback bool) (Names, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Names{}, domain.Malformed("html", err)
	}

	var names Names
	names.Title = strings.TrimSpace(doc.Find(pageTitleSelector).First().Text())

	doc.Find(languageTableSelector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("th, td")
			if cols.Length() < 2 {
				return
			}
			lang := strings.TrimSpace(cols.Eq(0).Text())
			name := strings.TrimSpace(cols.Eq(1).Text())
			switch lang {
			case "English":
				names.English = name
			case "Japanese":
				names.Japanese = name
			}
		})
		return names.English == "" || names.Japanese == ""
	})

	if names.English != "" && names.Japanese == "" {
		names.Japanese = names.English
	}

	if names.English == "" {
		if !titleFallback || names.Title == "" {
			return Names{}, domain.Absent("language table", fmt.Errorf("no English name"))
		}
		names.English = names.Title
		names.Japanese = names.Title
	}

	return names, nil
}
