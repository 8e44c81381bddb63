package booklet

import "html"

// Block is one typed unit of document content consumed by the
// pagination sink.
//
// Heading and Paragraph text may carry the sink's mini-markup — <b>,
// <br/>, <small> and <a href="...">. Text runs are entity-decoded at
// render time, so any user-supplied text inserted into them MUST pass
// through EscapeText first; unescaped input is a content-injection
// defect, not a cosmetic one. Table cells are plain text and rendered
// literally.
type Block interface{ block() }

// ParaStyle selects one of the fixed paragraph treatments.
type ParaStyle int

const (
	StyleNormal ParaStyle = iota
	StyleSmall            // 9pt, muted grey
	StyleMeta             // centered cover metadata lines
)

// Heading is a section heading. Level 1 is the centered cover title,
// level 2 a left-aligned section heading.
type Heading struct {
	Level int
	Text  string
}

type Paragraph struct {
	Text  string
	Style ParaStyle
}

// Image places a raster artifact at the given size in centimeters.
type Image struct {
	Path   string
	Width  float64
	Height float64
	Center bool
}

// Table is a simple bordered grid. With HeaderRow the first row is
// emphasized and filled; without it the first column is, which suits
// key/value tables.
type Table struct {
	Rows      [][]string
	ColWidths []float64 // centimeters
	HeaderRow bool
}

// Spacer inserts vertical whitespace (centimeters).
type Spacer struct{ Height float64 }

// PageBreak starts the following content on a fresh physical page.
type PageBreak struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Image) block()     {}
func (Table) block()     {}
func (Spacer) block()    {}
func (PageBreak) block() {}

// EscapeText escapes markup-reserved characters in user-supplied text
// before it enters heading or paragraph markup.
func EscapeText(s string) string {
	return html.EscapeString(s)
}
