package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io/fs"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"contours/internal/logging"
)

// GIF accumulates frames and keeps the file at path in sync with them.
type GIF struct {
	path  string
	scale float64
	delay int

	anim gif.GIF
}

// OpenGIF prepares an animation at path. Frames of an existing, readable
// file are kept so new frames are appended after them. A file that does not
// decode is moved to path+".bak" and the animation starts empty.
func OpenGIF(path string, scale float64, delay int, log logging.Logger) (*GIF, error) {
	g := &GIF{path: path, scale: scale, delay: delay}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open gif: %w", err)
	}

	anim, err := gif.DecodeAll(f)
	f.Close()
	if err != nil {
		backup := path + ".bak"
		if rerr := os.Rename(path, backup); rerr != nil {
			log.Warnf("existing %s is not a gif (%v), it will be overwritten: %v", path, err, rerr)
		} else {
			log.Warnf("existing %s is not a gif (%v), moved to %s", path, err, backup)
		}
		return g, nil
	}
	g.anim = *anim
	return g, nil
}

// Len returns the number of frames written so far.
func (g *GIF) Len() int {
	return len(g.anim.Image)
}

// Path returns the output file.
func (g *GIF) Path() string {
	return g.path
}

// Append adds img as the next frame and rewrites the file.
func (g *GIF) Append(img image.Image) error {
	frame := Quantize(Downscale(img, g.scale))

	// All frames share the first frame's size.
	if len(g.anim.Image) > 0 {
		first := g.anim.Image[0].Rect
		if frame.Rect.Size() != first.Size() {
			frame = Quantize(resize(img, first.Dx(), first.Dy()))
		}
	}

	next := g.anim
	next.Image = append(g.anim.Image[:len(g.anim.Image):len(g.anim.Image)], frame)
	next.Delay = append(g.anim.Delay[:len(g.anim.Delay):len(g.anim.Delay)], g.delay)
	next.Disposal = nil
	next.Config = image.Config{}

	// The frame is only kept once it is on disk.
	if err := g.write(&next); err != nil {
		return err
	}
	g.anim = next
	return nil
}

func (g *GIF) write(anim *gif.GIF) error {
	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, ".gif-*")
	if err != nil {
		return fmt.Errorf("create temp gif: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gif.EncodeAll(tmp, anim); err != nil {
		tmp.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp gif: %w", err)
	}
	if err := os.Rename(tmp.Name(), g.path); err != nil {
		return fmt.Errorf("replace gif: %w", err)
	}
	return nil
}

// Downscale resizes img by scale (0,1]. A scale of 1 returns a copy.
func Downscale(img image.Image, scale float64) *image.RGBA {
	b := img.Bounds()
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)
	return resize(img, w, h)
}

func resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Quantize maps img onto the Plan 9 palette with Floyd-Steinberg dithering.
func Quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, b.Min)
	return p
}
