package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// Glyph metrics of basicfont.Face7x13, used for wrapping.
	glyphWidth = 7
	lineHeight = 15

	wrapWidth = (baseWidth - 2*margin) / glyphWidth
)

func fillRect(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				img.Set(cx+x, cy+y, c)
			}
		}
	}
}

// drawText draws one line of text with the fixed bitmap font. y is the top of
// the line, not the baseline.
func drawText(img *image.RGBA, x, y int, c color.Color, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{c},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	drawer.DrawString(text)
}

// drawBlock draws an optional uppercase heading followed by wrapped body
// text, returning the y position below the block.
func drawBlock(img *image.RGBA, y int, headingColor, bodyColor color.Color, heading, body string) int {
	if y >= baseHeight-lineHeight {
		return y
	}
	if heading != "" {
		drawText(img, margin, y, headingColor, heading)
		y += lineHeight
	}
	for _, line := range WrapText(body, wrapWidth) {
		if y >= baseHeight-lineHeight {
			break
		}
		drawText(img, margin, y, bodyColor, line)
		y += lineHeight
	}
	return y + lineHeight/2
}

// WrapText wraps text to at most width characters per line. The terminal
// card view uses it too, so rendered and displayed rule text break alike.
func WrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var currentLine string
	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= width:
			currentLine += " " + word
		default:
			result = append(result, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		result = append(result, currentLine)
	}
	return result
}
