package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/ber_plotter_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
	pdfContentHeight       = pdfPageHeightLandscape - (2 * pdfMargin)
)

// ReportInput is everything the PDF summary shows.
type ReportInput struct {
	Title         string
	Source        string // path of the results table
	XColumn       string
	Bounds        analysis.AxisBounds
	Summaries     []analysis.SeriesSummary
	ChartPNG      []byte
	ChartWidthIn  float64
	ChartHeightIn float64
}

// pdfStyler keeps the running y position and named text styles.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6,
		currentY:   pdfMargin,
	}
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 12)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	return s
}

func (s *pdfStyler) applyStyle(name string) {
	if fn, ok := s.styles[name]; ok {
		fn()
		return
	}
	s.styles["normal"]()
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = pdfMargin
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > pdfMargin+pdfContentHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text, style, align string) {
	s.applyStyle(style)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}
	drawRow := func(cells []string, style string, fill bool) {
		s.checkAddPage(s.lineHeight)
		s.applyStyle(style)
		x := pdfMargin
		for i, cell := range cells {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))
	drawRow(headers, "tableHeader", true)
	for _, row := range rows {
		drawRow(row, "tableCell", false)
	}
}

func (s *pdfStyler) addImage(name string, data []byte, width, height float64) {
	s.pdf.RegisterImageReader(name, "PNG", bytes.NewReader(data))
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	if height > pdfContentHeight {
		width *= pdfContentHeight / height
		height = pdfContentHeight
	}
	s.checkAddPage(height)
	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(name, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
}

// BuildPDFReport writes a summary of the rendered chart to path: the series
// table on the first page, the chart on the second. Failures are returned as
// *SaveError.
func BuildPDFReport(path string, in ReportInput) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(in.Title, false)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	styler.writeParagraph(in.Title, "h1", "C")
	styler.addSpacer(4)
	styler.writeParagraph(fmt.Sprintf("Source: %s", in.Source), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Independent variable: %s", in.XColumn), "normal", "L")
	boundsNote := ""
	if in.Bounds.FromFloor {
		boundsNote = " (no non-zero BER observed, derived from the display floor)"
	}
	styler.writeParagraph(fmt.Sprintf("BER axis: %s to %s%s", formatBER(in.Bounds.Lower), formatBER(in.Bounds.Upper), boundsNote), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Series", "h2", "L")
	if len(in.Summaries) == 0 {
		styler.writeParagraph("No series to display.", "normal", "L")
	} else {
		rows := make([][]string, 0, len(in.Summaries))
		for _, sum := range in.Summaries {
			minBER := "-"
			if sum.HasTrueBER() {
				minBER = formatBER(sum.MinTrueBER)
			}
			rows = append(rows, []string{
				sum.Modulation,
				strconv.Itoa(sum.Points),
				fmt.Sprintf("%g to %g", sum.XMin, sum.XMax),
				minBER,
				strconv.Itoa(sum.ZeroErrorPoints),
			})
		}
		styler.writeTable(
			[]string{"Modulation", "Points", in.XColumn + " range", "Min BER", "Zero-error points"},
			[]float64{0.2, 0.12, 0.28, 0.2, 0.2},
			rows,
		)
	}

	if len(in.ChartPNG) > 0 {
		styler.newPage()
		w := pdfContentWidth
		h := w * 0.7
		if in.ChartWidthIn > 0 && in.ChartHeightIn > 0 {
			h = w * in.ChartHeightIn / in.ChartWidthIn
		}
		styler.addImage("ber_chart", in.ChartPNG, w, h)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

func formatBER(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
