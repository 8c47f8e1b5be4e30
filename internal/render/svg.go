// Package render turns laid out pages into SVG, PNG proofs and PDF.
package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/janpfeifer/TriMatch/internal/layout"
)

// Letter paper, the size the page geometry is designed for.
const (
	PageWidthInches  = 8.5
	PageHeightInches = 11
)

// SVG writes page as a standalone SVG document. The output only depends on
// the page, so the same deck always gives the same files.
func SVG(w io.Writer, page layout.Page, fontFamily string) error {
	vb := page.ViewBox
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg version="1.1" xmlns="http://www.w3.org/2000/svg" height="%sin" width="%sin" viewBox="%s %s %s %s"`,
		num(PageHeightInches), num(PageWidthInches), num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height)))
	if fontFamily != "" {
		sb.WriteString(fmt.Sprintf(` font-family="%s"`, attr(fontFamily)))
	}
	sb.WriteString(">\n")

	for _, unit := range page.Units {
		sb.WriteString(fmt.Sprintf(`<g transform="%s">`, unit.Transform))
		sb.WriteString("\n")
		for _, shape := range unit.Shapes {
			writeShape(&sb, shape)
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeShape(sb *strings.Builder, shape layout.Shape) {
	switch s := shape.(type) {
	case *layout.Triangle:
		p := s.Points
		sb.WriteString(fmt.Sprintf(`<path d="M %s %s L %s %s L %s %s Z" fill="%s"`,
			num(p[0].X), num(p[0].Y), num(p[1].X), num(p[1].Y), num(p[2].X), num(p[2].Y), attr(s.Fill)))
		if s.Stroke != "" {
			sb.WriteString(fmt.Sprintf(` stroke="%s" stroke-width="%s"`, attr(s.Stroke), num(s.StrokeWidth)))
		}
		sb.WriteString("/>\n")

	case *layout.Line:
		sb.WriteString(fmt.Sprintf(`<path d="M %s %s L %s %s" stroke="%s" stroke-width="%s"/>`,
			num(s.From.X), num(s.From.Y), num(s.To.X), num(s.To.Y), attr(s.Stroke), num(s.StrokeWidth)))
		sb.WriteString("\n")

	case *layout.Label:
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" text-anchor="middle"`,
			num(s.At.X), num(s.At.Y), num(s.Size)))
		if s.Centered {
			sb.WriteString(` dominant-baseline="middle"`)
		}
		if s.Fill != "" {
			sb.WriteString(fmt.Sprintf(` fill="%s"`, attr(s.Fill)))
		}
		if r := s.RotationString(); r != "" {
			sb.WriteString(fmt.Sprintf(` transform="%s"`, r))
		}
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(s.Text))
		sb.WriteString("</text>\n")
	}
}

// attr escapes a configured value, such as a palette color, for an attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
