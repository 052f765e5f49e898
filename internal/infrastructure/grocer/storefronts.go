package grocer

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/grocerycompare/backend/internal/domain"
)

// Public storefront origins
const (
	TescoBaseURL      = "https://www.tesco.com"
	SainsburysBaseURL = "https://www.sainsburys.co.uk"
	AsdaBaseURL       = "https://groceries.asda.com"
)

var (
	decimalPriceRegex = regexp.MustCompile(`\d+\.\d+`)
	poundPriceRegex   = regexp.MustCompile(`£(\d+\.\d+)`)
	innerWhitespace   = regexp.MustCompile(`\s+`)
)

// storefront knows how to search one store and read its result page
type storefront struct {
	baseURL   string
	searchURL func(baseURL, query string) string
	parse     func(doc *goquery.Document) []domain.CatalogEntry
}

func defaultStorefronts() map[domain.Store]storefront {
	return map[domain.Store]storefront{
		domain.StoreTesco: {
			baseURL:   TescoBaseURL,
			searchURL: tescoSearchURL,
			parse:     parseTesco,
		},
		domain.StoreSainsburys: {
			baseURL:   SainsburysBaseURL,
			searchURL: sainsburysSearchURL,
			parse:     parseSainsburys,
		},
		domain.StoreAsda: {
			baseURL:   AsdaBaseURL,
			searchURL: asdaSearchURL,
			parse:     parseAsda,
		},
	}
}

func tescoSearchURL(baseURL, query string) string {
	return baseURL + "/groceries/en-GB/search?query=" + url.QueryEscape(query)
}

func sainsburysSearchURL(baseURL, query string) string {
	return baseURL + "/gol-ui/SearchResults/" + url.PathEscape(query)
}

func asdaSearchURL(baseURL, query string) string {
	return baseURL + "/search/" + url.PathEscape(query)
}

func parseTesco(doc *goquery.Document) []domain.CatalogEntry {
	entries := []domain.CatalogEntry{}
	doc.Find(".product-list--list-item").Each(func(_ int, product *goquery.Selection) {
		title := product.Find(".styled__Text-sc-1xbujuz-0").First()
		price := product.Find(".value").First()
		if title.Length() == 0 || price.Length() == 0 {
			return
		}

		if entry, ok := newEntry(title.Text(), price.Text(), decimalPriceRegex); ok {
			entries = append(entries, entry)
		}
	})
	return entries
}

// parseSainsburys pairs each product block with the first p.pricePerUnit that
// follows it in document order, which may sit outside the block itself.
func parseSainsburys(doc *goquery.Document) []domain.CatalogEntry {
	position := documentOrder(doc)
	prices := doc.Find("p.pricePerUnit").Nodes

	entries := []domain.CatalogEntry{}
	doc.Find(".productNameAndPromotions").Each(func(_ int, product *goquery.Selection) {
		name := product.Find("h3 a").First()
		if name.Length() == 0 {
			return
		}

		start := position[product.Get(0)]
		var priceNode *html.Node
		for _, n := range prices {
			if position[n] > start {
				priceNode = n
				break
			}
		}
		if priceNode == nil {
			return
		}

		priceText := goquery.NewDocumentFromNode(priceNode).Text()
		if entry, ok := newEntry(name.Text(), priceText, poundPriceRegex); ok {
			entries = append(entries, entry)
		}
	})
	return entries
}

func parseAsda(doc *goquery.Document) []domain.CatalogEntry {
	entries := []domain.CatalogEntry{}
	doc.Find(".co-product").Each(func(_ int, product *goquery.Selection) {
		title := product.Find(".co-product__title").First()
		price := product.Find(".co-product__price .co-product__price--pence").First()
		if title.Length() == 0 || price.Length() == 0 {
			return
		}

		if entry, ok := newEntry(title.Text(), price.Text(), decimalPriceRegex); ok {
			entries = append(entries, entry)
		}
	})
	return entries
}

// newEntry builds a catalog entry from raw node text. The price is the first
// submatch of pattern, or the whole match when pattern has no group.
func newEntry(rawName, rawPrice string, pattern *regexp.Regexp) (domain.CatalogEntry, bool) {
	name := strings.TrimSpace(innerWhitespace.ReplaceAllString(rawName, " "))
	if name == "" {
		return domain.CatalogEntry{}, false
	}

	match := pattern.FindStringSubmatch(rawPrice)
	if match == nil {
		return domain.CatalogEntry{}, false
	}
	priceStr := match[0]
	if len(match) > 1 {
		priceStr = match[1]
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return domain.CatalogEntry{}, false
	}

	return domain.CatalogEntry{Name: name, UnitPrice: price}, true
}

// documentOrder numbers every node of the document in pre-order
func documentOrder(doc *goquery.Document) map[*html.Node]int {
	position := make(map[*html.Node]int)
	next := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		position[n] = next
		next++
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return position
}
