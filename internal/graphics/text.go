package graphics

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextStyle controls RasterizeLines.
type TextStyle struct {
	Face       font.Face
	Foreground color.Color
	Background color.Color
	Padding    int
}

// DefaultTextStyle is white 7x13 text on a translucent black panel.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Face:       basicfont.Face7x13,
		Foreground: color.White,
		Background: color.RGBA{0, 0, 0, 160},
		Padding:    6,
	}
}

// RasterizeLines draws lines top to bottom into a tightly sized image.
func RasterizeLines(lines []string, style TextStyle) *image.RGBA {
	face := style.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	maxW := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > maxW {
			maxW = w
		}
	}

	w := maxW + 2*style.Padding
	h := lineH*len(lines) + 2*style.Padding
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if style.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)
	}

	fg := style.Foreground
	if fg == nil {
		fg = color.White
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(style.Padding, style.Padding+ascent+i*lineH)
		d.DrawString(l)
	}
	return img
}
