package booklet

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in centimeters.
const (
	pageWidth    = 21.0
	pageHeight   = 29.7
	marginH      = 2.0
	marginTop    = 2.0
	marginBottom = 1.6
)

// Render is the pagination sink: it lays the block sequence out onto
// physical A4 pages, applies the "Page N" footer from the document's
// own page counter, writes the PDF to outPath and returns its byte
// size.
func Render(blocks []Block, outPath string) (int64, error) {
	pdf := gofpdf.New("P", "cm", "A4", "")
	pdf.SetMargins(marginH, marginTop, marginH)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-(marginBottom / 2))
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 0.5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	// Breaks are applied lazily so a trailing PageBreak does not leave
	// an empty last page.
	pending := false
	for _, b := range blocks {
		if _, ok := b.(PageBreak); ok {
			pending = true
			continue
		}
		if pending {
			pdf.AddPage()
			pending = false
		}

		switch blk := b.(type) {
		case Heading:
			renderHeading(pdf, blk)
		case Paragraph:
			renderParagraph(pdf, blk)
		case Image:
			renderImage(pdf, blk)
		case Table:
			renderTable(pdf, blk)
		case Spacer:
			pdf.Ln(blk.Height)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return 0, fmt.Errorf("writing PDF: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func renderHeading(pdf *gofpdf.Fpdf, h Heading) {
	text := html.UnescapeString(h.Text)
	if h.Level == 1 {
		pdf.SetFont("Helvetica", "B", 24)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 1.0, text, "", "C", false)
		pdf.Ln(0.7)
		return
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0x0f, 0x17, 0x2a)
	pdf.MultiCell(0, 0.8, text, "", "L", false)
	pdf.Ln(0.35)
}

// styledRun is one stretch of paragraph text with uniform styling.
type styledRun struct {
	text  string
	bold  bool
	small bool
	link  string
}

var hrefRe = regexp.MustCompile(`href="([^"]*)"`)

// parseMarkup tokenizes the sink's mini-markup into lines of styled
// runs. Entities in text runs are decoded here; this is the point where
// unescaped user input would corrupt the layout.
func parseMarkup(s string) [][]styledRun {
	var lines [][]styledRun
	var cur []styledRun
	var bold, small bool
	var link string

	emit := func(text string, decoded bool) {
		if text == "" {
			return
		}
		if decoded {
			text = html.UnescapeString(text)
		}
		cur = append(cur, styledRun{text: text, bold: bold, small: small, link: link})
	}

	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			emit(s, true)
			break
		}
		emit(s[:lt], true)
		s = s[lt:]

		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			// Unterminated tag: keep it as literal text.
			emit(s, false)
			break
		}
		tag := s[1:gt]
		s = s[gt+1:]

		switch {
		case tag == "b":
			bold = true
		case tag == "/b":
			bold = false
		case tag == "small":
			small = true
		case tag == "/small":
			small = false
		case tag == "br" || tag == "br/":
			lines = append(lines, cur)
			cur = nil
		case strings.HasPrefix(tag, "a "):
			if m := hrefRe.FindStringSubmatch(tag); m != nil {
				link = html.UnescapeString(m[1])
			}
		case tag == "/a":
			link = ""
		}
	}

	return append(lines, cur)
}

func renderParagraph(pdf *gofpdf.Fpdf, p Paragraph) {
	baseSize := 11.0
	lh := 0.55
	if p.Style == StyleSmall {
		baseSize = 9
		lh = 0.45
	}
	muted := p.Style == StyleSmall

	for _, line := range parseMarkup(p.Text) {
		if p.Style == StyleMeta {
			centerLine(pdf, line, baseSize, lh)
		} else {
			for _, run := range line {
				applyRunStyle(pdf, run, baseSize, muted)
				if run.link != "" {
					pdf.WriteLinkString(lh, run.text, run.link)
				} else {
					pdf.Write(lh, run.text)
				}
			}
		}
		pdf.Ln(lh)
	}
	pdf.Ln(0.25)
}

// centerLine writes one line of styled runs horizontally centered.
func centerLine(pdf *gofpdf.Fpdf, runs []styledRun, baseSize, lh float64) {
	total := 0.0
	for _, run := range runs {
		applyRunStyle(pdf, run, baseSize, false)
		total += pdf.GetStringWidth(run.text)
	}

	x := marginH + (pageWidth-2*marginH-total)/2
	if x < marginH {
		x = marginH
	}
	pdf.SetX(x)
	for _, run := range runs {
		applyRunStyle(pdf, run, baseSize, false)
		pdf.Write(lh, run.text)
	}
}

func applyRunStyle(pdf *gofpdf.Fpdf, run styledRun, baseSize float64, muted bool) {
	style := ""
	if run.bold {
		style += "B"
	}
	if run.link != "" {
		style += "U"
	}
	size := baseSize
	if run.small {
		size = 9
		muted = true
	}
	pdf.SetFont("Helvetica", style, size)
	switch {
	case run.link != "":
		pdf.SetTextColor(37, 99, 235)
	case muted:
		pdf.SetTextColor(128, 128, 128)
	default:
		pdf.SetTextColor(0, 0, 0)
	}
}

func renderImage(pdf *gofpdf.Fpdf, img Image) {
	// Placed images bypass gofpdf's auto page-break flow.
	if pdf.GetY()+img.Height > pageHeight-marginBottom-0.6 {
		pdf.AddPage()
	}

	x := marginH
	if img.Center {
		x = (pageWidth - img.Width) / 2
	}
	y := pdf.GetY()
	pdf.ImageOptions(img.Path, x, y, img.Width, img.Height, false, gofpdf.ImageOptions{}, 0, "")
	pdf.SetY(y + img.Height + 0.2)
}

func renderTable(pdf *gofpdf.Fpdf, t Table) {
	const cellLH = 0.5

	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(0.02)

	for i, row := range t.Rows {
		rowH := cellLH + 0.2
		for j, cell := range row {
			setTableCellFont(pdf, t, i, j)
			lines := pdf.SplitText(cell, t.ColWidths[j]-0.3)
			if h := float64(len(lines))*cellLH + 0.2; h > rowH {
				rowH = h
			}
		}

		if pdf.GetY()+rowH > pageHeight-marginBottom-0.6 {
			pdf.AddPage()
		}

		y := pdf.GetY()
		x := marginH
		for j, cell := range row {
			w := t.ColWidths[j]
			if emphasizedCell(t, i, j) {
				pdf.SetFillColor(245, 245, 245)
				pdf.Rect(x, y, w, rowH, "FD")
			} else {
				pdf.Rect(x, y, w, rowH, "D")
			}
			setTableCellFont(pdf, t, i, j)
			pdf.SetXY(x+0.15, y+0.1)
			pdf.MultiCell(w-0.3, cellLH, cell, "", "L", false)
			x += w
		}
		pdf.SetXY(marginH, y+rowH)
	}
	pdf.Ln(0.3)
}

// emphasizedCell marks the header row, or the key column of a
// headerless key/value table.
func emphasizedCell(t Table, row, col int) bool {
	if t.HeaderRow {
		return row == 0
	}
	return col == 0
}

func setTableCellFont(pdf *gofpdf.Fpdf, t Table, row, col int) {
	style := ""
	if emphasizedCell(t, row, col) {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 9)
	pdf.SetTextColor(0, 0, 0)
}
