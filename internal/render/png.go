package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/janpfeifer/TriMatch/internal/layout"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNG rasterizes page on a letter sheet at dpi dots per inch.
//
// It is meant for proofing: shapes are exact, but labels are drawn upright
// with Go Regular at their transformed anchor, whatever their rotation. The
// SVG is what gets printed.
func PNG(w io.Writer, page layout.Page, dpi int) error {
	if dpi <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", dpi)
	}
	rc, err := newRasterContext(page.ViewBox, dpi)
	if err != nil {
		return err
	}
	for _, unit := range page.Units {
		for _, shape := range unit.Shapes {
			rc.draw(shape, unit.Transform)
		}
	}
	return png.Encode(w, rc.img)
}

// rasterContext maps page units to pixels, the SVG way: the view box is
// scaled uniformly to fit the sheet and centered.
type rasterContext struct {
	img     *image.RGBA
	vb      layout.Rect
	scale   float64
	offsetX float64
	offsetY float64

	filler *rasterx.Filler
	dasher *rasterx.Dasher

	font  *opentype.Font
	faces map[float64]font.Face
}

func newRasterContext(vb layout.Rect, dpi int) (*rasterContext, error) {
	width := int(math.Round(PageWidthInches * float64(dpi)))
	height := int(math.Round(PageHeightInches * float64(dpi)))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go Regular: %w", err)
	}

	scale := math.Min(float64(width)/vb.Width, float64(height)/vb.Height)
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &rasterContext{
		img:     img,
		vb:      vb,
		scale:   scale,
		offsetX: (float64(width) - vb.Width*scale) / 2,
		offsetY: (float64(height) - vb.Height*scale) / 2,
		filler:  rasterx.NewFiller(width, height, scanner),
		dasher:  rasterx.NewDasher(width, height, scanner),
		font:    fnt,
		faces:   make(map[float64]font.Face),
	}, nil
}

// pixel maps a card point through the card's transform to pixel coordinates.
func (rc *rasterContext) pixel(p layout.Point, t layout.Transform) (float64, float64) {
	p = t.Apply(p)
	return (p.X-rc.vb.X)*rc.scale + rc.offsetX, (p.Y-rc.vb.Y)*rc.scale + rc.offsetY
}

func (rc *rasterContext) draw(shape layout.Shape, t layout.Transform) {
	switch s := shape.(type) {
	case *layout.Triangle:
		var pts [3]fixed.Point26_6
		for k, p := range s.Points {
			pts[k] = rasterx.ToFixedP(rc.pixel(p, t))
		}
		rc.filler.SetColor(parseColor(s.Fill))
		rc.filler.Start(pts[0])
		rc.filler.Line(pts[1])
		rc.filler.Line(pts[2])
		rc.filler.Stop(true)
		rc.filler.Draw()
		rc.filler.Clear()
		if s.Stroke != "" {
			rc.stroke(pts[:], true, s.Stroke, s.StrokeWidth)
		}

	case *layout.Line:
		rc.stroke([]fixed.Point26_6{
			rasterx.ToFixedP(rc.pixel(s.From, t)),
			rasterx.ToFixedP(rc.pixel(s.To, t)),
		}, false, s.Stroke, s.StrokeWidth)

	case *layout.Label:
		rc.label(s, t)
	}
}

func (rc *rasterContext) stroke(pts []fixed.Point26_6, closed bool, stroke string, width float64) {
	w := math.Max(width*rc.scale, 1)
	rc.dasher.SetStroke(fixed.Int26_6(w*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	rc.dasher.SetColor(parseColor(stroke))
	rc.dasher.Start(pts[0])
	for _, p := range pts[1:] {
		rc.dasher.Line(p)
	}
	rc.dasher.Stop(closed)
	rc.dasher.Draw()
	rc.dasher.Clear()
}

func (rc *rasterContext) face(size float64) font.Face {
	px := math.Round(size*rc.scale*4) / 4
	if f, ok := rc.faces[px]; ok {
		return f
	}
	f, err := opentype.NewFace(rc.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72, // Size is in pixels
		Hinting: font.HintingNone,
	})
	if err != nil {
		// Only fails for invalid sizes, which are skipped.
		return nil
	}
	rc.faces[px] = f
	return f
}

func (rc *rasterContext) label(l *layout.Label, t layout.Transform) {
	face := rc.face(l.Size)
	if face == nil || l.Text == "" {
		return
	}
	x, y := rc.pixel(l.Anchor(), t)
	d := &font.Drawer{
		Dst:  rc.img,
		Src:  image.NewUniform(parseColor(l.Fill)),
		Face: face,
	}
	width := d.MeasureString(l.Text)
	baseline := fixed.Int26_6(y * 64)
	if l.Centered {
		m := face.Metrics()
		baseline += (m.Ascent - m.Descent) / 2
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x*64) - width/2, Y: baseline}
	d.DrawString(l.Text)
}

// parseColor understands #RGB, #RRGGBB and SVG color names; anything else is black.
func parseColor(s string) color.RGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{A: 0xff}
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
