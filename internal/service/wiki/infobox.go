package wiki

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
)

// InfoboxSelector matches the summary table of a talent page.
const InfoboxSelector = "table.infobox"

var lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

var socialLabels = map[string]struct{}{
	"youtube":     {},
	"twitter":     {},
	"spotify":     {},
	"bilibili":    {},
	"twitcasting": {},
	"marshmallow": {},
}

// FindInfobox returns the first infobox table of doc, or nil when the page has none.
func FindInfobox(doc *goquery.Document) *goquery.Selection {
	infobox := doc.Find(InfoboxSelector).First()
	if infobox.Length() == 0 {
		return nil
	}
	return infobox
}

// ExtractInformation fills names, oshi mark, socials and quotes of record from the infobox rows.
// Missing structure leaves fields unset.
func ExtractInformation(record *domain.TalentRecord, infobox *goquery.Selection) {
	group := infobox.Children().First()
	if group.Length() == 0 {
		return
	}
	rows := group.Children()

	extractQuotes(record, rows)

	rows.Each(func(_ int, row *goquery.Selection) {
		header := row.Find("th").First()
		if header.Length() == 0 {
			return
		}

		key := util.NormalizeLabel(header.Text())
		switch key {
		case "japanesename":
			record.Name = siblingText(header)
		case "englishname":
			record.NameEn = siblingText(header)
		case "emoji/oshimark":
			record.OshiMark = siblingText(header)
		default:
			if _, ok := socialLabels[key]; ok {
				service := util.StringPtr(strings.TrimSpace(header.Text()))
				href, label := siblingAnchor(header)
				record.AddSocial(service, href, label)
			}
		}
	})

	if record.Name == nil {
		record.Name = record.NameEn
	}
}

func siblingText(header *goquery.Selection) *string {
	sibling := header.Next()
	if sibling.Length() == 0 {
		return nil
	}
	return util.StringPtr(strings.TrimSpace(sibling.Text()))
}

func siblingAnchor(header *goquery.Selection) (href, label *string) {
	anchor := header.Next().Find("a").First()
	if anchor.Length() == 0 {
		return nil, nil
	}
	if value, ok := anchor.Attr("href"); ok {
		href = &value
	}
	return href, util.StringPtr(strings.TrimSpace(anchor.Text()))
}

// The quote sits at rows[1] > first child > second child.
func extractQuotes(record *domain.TalentRecord, rows *goquery.Selection) {
	if rows.Length() < 2 {
		return
	}
	cells := rows.Eq(1).Children()
	if cells.Length() == 0 {
		return
	}
	parts := cells.First().Children()
	if parts.Length() < 2 {
		return
	}

	markup, err := parts.Eq(1).Html()
	if err != nil {
		return
	}
	record.QuoteEn, record.Quote = SplitQuote(markup)
}

// SplitQuote splits "English<br>Native" markup. Without a line break the whole text is the native quote.
func SplitQuote(markup string) (quoteEn, quote *string) {
	split := lineBreakPattern.Split(markup, 2)
	if len(split) > 1 {
		en := strings.TrimSpace(html.UnescapeString(split[0]))
		native := lineBreakPattern.ReplaceAllString(split[1], "\n")
		native = strings.TrimSpace(html.UnescapeString(native))
		return &en, &native
	}
	single := strings.TrimSpace(html.UnescapeString(split[0]))
	return nil, &single
}
