package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder layout constants, 800x600 canvas
const (
	placeholderWidth  = 800
	placeholderHeight = 600
	placeholderInset  = 10
	textMargin        = 50
	lineStep          = 20
)

var (
	placeholderBg     = color.RGBA{R: 0xf8, G: 0xf9, B: 0xfa, A: 0xff}
	placeholderBorder = color.RGBA{R: 0xde, G: 0xe2, B: 0xe6, A: 0xff}
	placeholderText   = color.RGBA{R: 0x49, G: 0x50, B: 0x57, A: 0xff}
)

// Placeholder renders a static stand-in diagram for the prompt and topic.
// It is a pure function with no provider dependency, used when image
// generation is unavailable or deliberately skipped.
func Placeholder(prompt, topic string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))

	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBg), image.Point{}, draw.Src)
	drawBorder(img)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: basicfont.Face7x13,
	}

	title := fmt.Sprintf("Educational Diagram: %s", topic)
	drawCentered(drawer, title, 60)
	drawCentered(drawer, "Diagram generation unavailable", 100)

	y := 150
	for _, line := range wrapFixedWidth(prompt, placeholderWidth-2*textMargin, drawer.Face) {
		drawer.Dot = fixed.P(textMargin, y)
		drawer.DrawString(line)
		y += lineStep
		if y > placeholderHeight-textMargin {
			break
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, goerr.Wrap(err, "failed to encode placeholder image")
	}
	return buf.Bytes(), nil
}

func drawBorder(img *image.RGBA) {
	b := img.Bounds()
	for x := placeholderInset; x < b.Dx()-placeholderInset; x++ {
		img.Set(x, placeholderInset, placeholderBorder)
		img.Set(x, placeholderInset+1, placeholderBorder)
		img.Set(x, b.Dy()-placeholderInset-1, placeholderBorder)
		img.Set(x, b.Dy()-placeholderInset-2, placeholderBorder)
	}
	for y := placeholderInset; y < b.Dy()-placeholderInset; y++ {
		img.Set(placeholderInset, y, placeholderBorder)
		img.Set(placeholderInset+1, y, placeholderBorder)
		img.Set(b.Dx()-placeholderInset-1, y, placeholderBorder)
		img.Set(b.Dx()-placeholderInset-2, y, placeholderBorder)
	}
}

func drawCentered(d *font.Drawer, s string, y int) {
	width := d.MeasureString(s).Ceil()
	x := (placeholderWidth - width) / 2
	if x < textMargin {
		x = textMargin
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// wrapFixedWidth greedily wraps words so each line fits maxWidth pixels
func wrapFixedWidth(s string, maxWidth int, face font.Face) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	d := font.Drawer{Face: face}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		test := line + " " + word
		if d.MeasureString(test).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = test
	}
	return append(lines, line)
}
