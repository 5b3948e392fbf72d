package catalog

import (
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	siteRoot    = "https://www.rochesterastronomy.org/"
	pageURL     = siteRoot + "snimages/snactive.html"
	minColumns  = 12
	colName     = 0
	colHost     = 1
	colRA       = 2
	colDec      = 3
	colMag      = 5
	colDate     = 6
	colType     = 7
	colMaxMag   = 9
	colMaxDate  = 10
	colFirstObs = 11
)

// Parse reads the active supernovae HTML table from r. Rows with fewer than
// twelve cells are not data rows and are ignored. Rows whose coordinates
// cannot be parsed are dropped with a warning and counted in skipped.
// Unparsable magnitudes and dates are kept as missing fields.
func Parse(r io.Reader, logger *zap.Logger) (records []Record, skipped int, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, 0, eris.Wrap(err, "parsing catalog html")
	}

	base, _ := url.Parse(pageURL)
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			cells := rowCells(n)
			if len(cells) >= minColumns {
				rec, ok := parseRow(cells, base, logger)
				switch {
				case !ok:
					skipped++
				case seen[rec.Name]:
					logger.Warn("skipping duplicate catalog row", zap.String("name", rec.Name))
					skipped++
				default:
					seen[rec.Name] = true
					records = append(records, rec)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return records, skipped, nil
}

func parseRow(cells []*html.Node, base *url.URL, logger *zap.Logger) (Record, bool) {
	name := cellText(cells[colName])
	raText := cellText(cells[colRA])
	decText := cellText(cells[colDec])

	if name == "" {
		logger.Warn("skipping catalog row without a name")
		return Record{}, false
	}

	ra, err := ParseRA(raText)
	if err != nil {
		logger.Warn("skipping catalog row with bad coordinates", zap.String("name", name), zap.Error(err))
		return Record{}, false
	}
	dec, err := ParseDec(decText)
	if err != nil {
		logger.Warn("skipping catalog row with bad coordinates", zap.String("name", name), zap.Error(err))
		return Record{}, false
	}

	rec := Record{
		Name:                 name,
		Host:                 cellText(cells[colHost]),
		RA:                   raText,
		Dec:                  decText,
		MagnitudeText:        cellText(cells[colMag]),
		DiscoveredText:       cellText(cells[colDate]),
		Type:                 cellText(cells[colType]),
		MaxMagnitude:         cellText(cells[colMaxMag]),
		MaxMagnitudeDateText: cellText(cells[colMaxDate]),
		FirstObservedText:    cellText(cells[colFirstObs]),
		Link:                 cellLink(cells[colName], base),
	}
	rec.Coord.RADeg, rec.Coord.DecDeg = ra, dec

	rec.Magnitude = ParseMagnitude(rec.MagnitudeText)
	if !rec.Magnitude.Valid {
		logger.Debug("catalog row has no usable magnitude", zap.String("name", name), zap.String("value", rec.MagnitudeText))
	}
	if d, ok := ParseDate(rec.DiscoveredText); ok {
		rec.Discovered = d
	} else {
		logger.Debug("catalog row has no usable discovery date", zap.String("name", name), zap.String("value", rec.DiscoveredText))
	}
	if d, ok := ParseDate(rec.MaxMagnitudeDateText); ok {
		rec.MaxMagnitudeDate = d
	}
	if d, ok := ParseDate(rec.FirstObservedText); ok {
		rec.FirstObserved = d
	}

	return rec, true
}

// rowCells returns the <td> children of a <tr>.
func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Td {
			cells = append(cells, c)
		}
	}
	return cells
}

// cellText returns the text content of n with whitespace collapsed.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// cellLink returns the first anchor href in n as an absolute URL.
func cellLink(n *html.Node, base *url.URL) string {
	href := findHref(n)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "../") {
		return siteRoot + strings.TrimPrefix(href, "../")
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

func findHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for _, a := range n.Attr {
			if a.Key == "href" {
				return strings.TrimSpace(a.Val)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if h := findHref(c); h != "" {
			return h
		}
	}
	return ""
}
