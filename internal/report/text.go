// Package report renders selected candidates as plain text or as a PDF with
// altitude and sky-track charts.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"net/url"

	"golang.org/x/text/message"

	"github.com/star/snwatch/internal/selection"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	separator      = "-------------------------------------------------"
	tnsObjectURL   = "https://www.wis-tns.org/object/"
)

// Report is one rendered search result.
type Report struct {
	Criteria   selection.Criteria
	Candidates []selection.Candidate
	Language   string
}

// FileName is the default file name for a report, based on the observation
// date.
func (r Report) FileName(ext string) string {
	return r.Criteria.Start.UTC().Format(dateLayout) + "." + ext
}

// header returns the title line and the site lines.
func (r Report) header(p *message.Printer) (string, []string) {
	c := r.Criteria
	title := p.Sprintf(msgHeader,
		c.Cutoff.UTC().Format(dateLayout),
		c.Start.UTC().Format(dateTimeLayout),
		c.MagnitudeCeiling,
	)
	site := p.Sprintf(msgSite, c.Site.Name, c.Site.Longitude, c.Site.Latitude, c.Site.Height)
	if c.UsesPreset() {
		b := c.Bounds()
		return title, []string{
			site + ".",
			p.Sprintf(msgWindow, c.Window, b.MinAltitude, b.MaxAltitude, b.MinAzimuth, b.MaxAzimuth),
		}
	}
	return title, []string{site + ". " + p.Sprintf(msgMinAltitude, c.MinAltitude)}
}

// entry is the text of one candidate block, links excluded.
type entry struct {
	heading []string // highlighted in the PDF
	detail  []string
}

func newEntry(p *message.Printer, c selection.Candidate) entry {
	first, _ := c.Visibility.First()
	last, _ := c.Visibility.Last()
	return entry{
		heading: []string{
			p.Sprintf(msgEntry, c.DiscoveredText, magnitudeText(c), c.Type, c.Name),
			"  " + p.Sprintf(msgConst, c.Constellation, c.Host),
			"  " + p.Sprintf(msgCoord, c.RA, c.Dec),
		},
		detail: []string{
			"  " + p.Sprintf(msgVisible, first.Time.UTC().Format(dateTimeLayout), last.Time.UTC().Format(dateTimeLayout)),
			"  " + p.Sprintf(msgFirst, FormatDMS(first.Azimuth), FormatDMS(first.Altitude)),
			"  " + p.Sprintf(msgLast, FormatDMS(last.Azimuth), FormatDMS(last.Altitude)),
			"",
			"  " + p.Sprintf(msgDiscovered, c.FirstObservedText, c.MaxMagnitude, c.MaxMagnitudeDateText),
		},
	}
}

func magnitudeText(c selection.Candidate) string {
	if c.MagnitudeText != "" {
		return c.MagnitudeText
	}
	return fmt.Sprintf("%.1f", c.Magnitude.Value)
}

// TNSLink returns the Transient Name Server page for a supernova name.
func TNSLink(name string) string {
	return tnsObjectURL + url.PathEscape(name)
}

// FormatDMS formats degrees as "d m s.ss", e.g. 270.5 -> "270 30 0.00".
func FormatDMS(deg float64) string {
	sign := ""
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	d := math.Floor(deg)
	rem := (deg - d) * 60
	m := math.Floor(rem)
	s := (rem - m) * 60

	// Rounding to two decimals can carry into the next minute or degree.
	s = math.Round(s*100) / 100
	if s >= 60 {
		s -= 60
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}
	return fmt.Sprintf("%s%d %d %.2f", sign, int(d), int(m), s)
}

// WriteText writes the plain-text report to w.
func WriteText(w io.Writer, r Report) error {
	p := NewPrinter(r.Language)
	bw := bufio.NewWriter(w)

	title, site := r.header(p)
	fmt.Fprintln(bw, title)
	for _, line := range site {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw)

	if len(r.Candidates) == 0 {
		fmt.Fprintln(bw, p.Sprintf(msgNone))
	}

	for _, c := range r.Candidates {
		e := newEntry(p, c)
		fmt.Fprintln(bw, separator)
		for _, line := range e.heading {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw)
		for _, line := range e.detail {
			fmt.Fprintln(bw, line)
		}
		if c.Link != "" {
			fmt.Fprintln(bw, "  "+c.Link)
		}
		fmt.Fprintln(bw, "  "+TNSLink(c.Name))
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
