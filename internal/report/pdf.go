package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"golang.org/x/text/message"

	"github.com/star/snwatch/internal/selection"
	"github.com/star/snwatch/internal/visibility"
)

// Page geometry in millimetres.
const (
	pageMargin   = 10.0
	footerHeight = 8.0
	lineHeight   = 5.0
	chartHeight  = 60.0
	chartGap     = 5.0
	textFont     = "Courier"
	labelFont    = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	colorText      = rgb{0, 0, 0}
	colorLink      = rgb{0, 0, 255}
	colorHighlight = rgb{242, 242, 242}
	colorRule      = rgb{191, 191, 191}
	colorGrid      = rgb{210, 210, 210}
	colorTrack     = rgb{40, 90, 200}
	colorAccepted  = rgb{30, 150, 60}
	colorLimit     = rgb{200, 40, 40}
)

// PDF renders reports as A4 documents. Each candidate gets a text block
// followed by an altitude-over-time chart and a polar sky-track chart.
type PDF struct {
	sampler visibility.Sampler
}

// NewPDF creates a PDF renderer. A nil sampler uses the default one; it is
// used to draw the full track across the observation window.
func NewPDF(sampler visibility.Sampler) *PDF {
	if sampler == nil {
		sampler = visibility.NewSampler()
	}
	return &PDF{sampler: sampler}
}

// WritePDF writes r as PDF to w with the default sampler.
func WritePDF(w io.Writer, r Report) error {
	return NewPDF(nil).Write(w, r)
}

// pdfDoc bundles the document with its localisation helpers.
type pdfDoc struct {
	*fpdf.Fpdf
	p  *message.Printer
	tr func(string) string
}

func (d *pdfDoc) color(c rgb) {
	d.SetTextColor(c.r, c.g, c.b)
}

func (d *pdfDoc) line(text string) {
	d.CellFormat(0, lineHeight, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *pdfDoc) link(url string) {
	d.color(colorLink)
	d.CellFormat(0, lineHeight, url, "", 1, "L", false, 0, url)
	d.color(colorText)
}

// Write renders r to w.
func (g *PDF) Write(w io.Writer, r Report) error {
	p := NewPrinter(r.Language)
	doc := fpdf.New("P", "mm", "A4", "")
	d := &pdfDoc{Fpdf: doc, p: p, tr: doc.UnicodeTranslatorFromDescriptor("")}

	title, site := r.header(p)
	doc.SetTitle(title, true)
	doc.SetCreator("snwatch", true)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.SetFooterFunc(func() {
		doc.SetY(-footerHeight)
		doc.SetFont(labelFont, "", 8)
		d.color(colorRule)
		doc.CellFormat(0, 4, d.tr(p.Sprintf(msgPage, doc.PageNo())), "", 0, "C", false, 0, "")
		d.color(colorText)
	})

	doc.AddPage()
	doc.SetFont(textFont, "", 10)
	d.line(title)
	for _, l := range site {
		d.line(l)
	}
	doc.Ln(lineHeight)

	if len(r.Candidates) == 0 {
		d.line(p.Sprintf(msgNone))
	}

	_, pageH := doc.GetPageSize()
	bottom := pageH - pageMargin - footerHeight

	for _, c := range r.Candidates {
		e := newEntry(p, c)
		lines := len(e.heading) + len(e.detail) + 3
		if doc.GetY()+float64(lines)*lineHeight+chartHeight+chartGap > bottom {
			doc.AddPage()
			doc.SetFont(textFont, "", 10)
		}
		g.block(d, r.Criteria, c, e)
	}

	if err := doc.Output(w); err != nil {
		return eris.Wrap(err, "rendering pdf")
	}
	return nil
}

func (g *PDF) block(d *pdfDoc, crit selection.Criteria, c selection.Candidate, e entry) {
	pageW, _ := d.GetPageSize()
	usable := pageW - 2*pageMargin

	// Shaded box with a top rule behind the heading lines.
	y0 := d.GetY()
	d.SetFillColor(colorHighlight.r, colorHighlight.g, colorHighlight.b)
	d.Rect(pageMargin, y0, usable, float64(len(e.heading))*lineHeight+1, "F")
	d.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	d.SetLineWidth(0.2)
	d.Line(pageMargin, y0, pageMargin+usable, y0)

	d.SetY(y0 + 0.5)
	for _, l := range e.heading {
		d.line(l)
	}
	d.Ln(1)
	for _, l := range e.detail {
		d.line(l)
	}
	if c.Link != "" {
		d.link(c.Link)
	}
	d.link(TNSLink(c.Name))

	samples := g.track(crit, c)
	chartY := d.GetY() + 2
	altW := usable * 0.66
	skyW := math.Min(usable-altW-chartGap, chartHeight)

	start, end := visibility.Window(crit.Start, crit.Hours)
	d.altitudeChart(pageMargin, chartY, altW, chartHeight, samples, c.Visibility.Samples, crit.Bounds(), start, end)
	d.skyChart(pageMargin+altW+chartGap, chartY, skyW, samples, c.Visibility.Samples)

	d.SetDrawColor(colorText.r, colorText.g, colorText.b)
	d.SetFillColor(255, 255, 255)
	d.SetFont(textFont, "", 10)
	d.color(colorText)
	d.SetY(chartY + chartHeight + chartGap)
}

// track samples the candidate across the whole observation window, accepted
// or not. It falls back to the accepted samples if sampling fails.
func (g *PDF) track(crit selection.Criteria, c selection.Candidate) []visibility.HorizonSample {
	start, end := visibility.Window(crit.Start, crit.Hours)
	samples, err := g.sampler.Sample(crit.Site, c.Coord, start, end)
	if err != nil || len(samples) == 0 {
		return c.Visibility.Samples
	}
	return samples
}

// altitudeChart plots altitude against time, with the lower altitude bound
// dashed and accepted samples marked.
func (d *pdfDoc) altitudeChart(x, y, w, h float64, all, accepted []visibility.HorizonSample, b visibility.Bounds, start, end time.Time) {
	px, py := x+9, y+5
	pw, ph := w-11, h-13

	span := end.Sub(start)
	if span <= 0 {
		span = time.Hour
	}
	tx := func(t time.Time) float64 {
		return px + pw*float64(t.Sub(start))/float64(span)
	}
	ay := func(alt float64) float64 {
		return py + ph*(1-clamp(alt, 0, 90)/90)
	}

	d.SetFont(labelFont, "", 6)
	d.color(colorText)
	d.Text(px, y+3, d.tr(d.p.Sprintf(msgAltitude)))

	d.SetLineWidth(0.1)
	d.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	for alt := 0; alt <= 90; alt += 30 {
		yy := ay(float64(alt))
		d.Line(px, yy, px+pw, yy)
		d.Text(x, yy+1, fmt.Sprintf("%d", alt))
	}
	for t := start.Truncate(time.Hour); !t.After(start.Add(span)); t = t.Add(time.Hour) {
		if t.Before(start) {
			continue
		}
		xx := tx(t)
		d.Line(xx, py, xx, py+ph)
		d.Text(xx-3, py+ph+3.5, t.UTC().Format("15:04"))
	}
	d.Text(px+pw/2-6, y+h-1, d.tr(d.p.Sprintf(msgTime)))

	d.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	d.Rect(px, py, pw, ph, "D")

	if b.MinAltitude > 0 {
		d.SetDrawColor(colorLimit.r, colorLimit.g, colorLimit.b)
		d.SetDashPattern([]float64{1, 1}, 0)
		d.Line(px, ay(b.MinAltitude), px+pw, ay(b.MinAltitude))
		d.SetDashPattern([]float64{}, 0)
	}

	d.SetLineWidth(0.4)
	d.SetDrawColor(colorTrack.r, colorTrack.g, colorTrack.b)
	for i := 1; i < len(all); i++ {
		d.Line(tx(all[i-1].Time), ay(all[i-1].Altitude), tx(all[i].Time), ay(all[i].Altitude))
	}

	d.SetFillColor(colorAccepted.r, colorAccepted.g, colorAccepted.b)
	for _, s := range accepted {
		d.Circle(tx(s.Time), ay(s.Altitude), 0.8, "F")
	}
	d.SetLineWidth(0.2)
}

// skyChart draws a polar plot of the sky: zenith at the centre, horizon at
// the rim, north up and east to the left as seen looking up.
func (d *pdfDoc) skyChart(x, y, size float64, all, accepted []visibility.HorizonSample) {
	cx, cy := x+size/2, y+size/2
	R := size/2 - 4

	project := func(s visibility.HorizonSample) (float64, float64) {
		r := R * (90 - clamp(s.Altitude, 0, 90)) / 90
		az := s.Azimuth * math.Pi / 180
		return cx - r*math.Sin(az), cy - r*math.Cos(az)
	}

	d.SetLineWidth(0.1)
	d.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	for _, alt := range []float64{0, 30, 60} {
		d.Circle(cx, cy, R*(90-alt)/90, "D")
	}
	d.Line(cx-R, cy, cx+R, cy)
	d.Line(cx, cy-R, cx, cy+R)

	d.SetFont(labelFont, "B", 7)
	d.color(colorText)
	d.Text(cx-1, y+2.5, "N")
	d.Text(cx-1, y+size-0.5, "S")
	d.Text(x+0.5, cy+1, "E")
	d.Text(x+size-3, cy+1, "W")

	d.SetLineWidth(0.4)
	d.SetDrawColor(colorTrack.r, colorTrack.g, colorTrack.b)
	for i := 1; i < len(all); i++ {
		if all[i-1].Altitude < 0 || all[i].Altitude < 0 {
			continue
		}
		x0, y0 := project(all[i-1])
		x1, y1 := project(all[i])
		d.Line(x0, y0, x1, y1)
	}

	d.SetFillColor(colorAccepted.r, colorAccepted.g, colorAccepted.b)
	for _, s := range accepted {
		px, py := project(s)
		d.Circle(px, py, 0.8, "F")
	}
	d.SetLineWidth(0.2)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
