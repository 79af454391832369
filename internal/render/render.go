// Package render rasterizes cards into fixed-size PNG artifacts. The layout
// mirrors the reference card sheet: a 375x525 frame rendered at an integer
// scale factor, with a style-tinted header, an art panel, a metadata band and
// wrapped rule text.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/duelcraft/cardpress/internal/card"
	"github.com/duelcraft/cardpress/internal/catalog"
	"github.com/duelcraft/cardpress/internal/logging"
)

const (
	baseWidth  = 375
	baseHeight = 525

	headerHeight = 60
	artTop       = 70
	artBottom    = 270
	margin       = 15
)

// CardRenderer draws cards using optional art from ImagesDir. A missing art
// file degrades to a placeholder panel, never an error.
type CardRenderer struct {
	imagesDir string
	scale     int
	logger    *slog.Logger
}

// NewCardRenderer builds a renderer. Scale multiplies the 375x525 base frame;
// values below 1 are clamped to 1.
func NewCardRenderer(imagesDir string, scale int, logger *slog.Logger) *CardRenderer {
	if scale < 1 {
		scale = 1
	}
	return &CardRenderer{
		imagesDir: imagesDir,
		scale:     scale,
		logger:    logging.WithComponent(logger, "render"),
	}
}

// Render rasterizes one card to PNG bytes. Safe for concurrent use across
// different cards; the card is never mutated.
func (r *CardRenderer) Render(ctx context.Context, c card.Card, icon string, accent catalog.Color) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := r.compose(c, accent)

	// Text is drawn at base size for crispness relative to the bitmap font,
	// then the whole frame is upscaled.
	var final image.Image = img
	if r.scale > 1 {
		final = resize.Resize(uint(baseWidth*r.scale), uint(baseHeight*r.scale), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, fmt.Errorf("encoding card %s: %w", c.ID, err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) compose(c card.Card, accent catalog.Color) *image.RGBA {
	accentCol := colorful.Color{R: clamp01(accent.Red), G: clamp01(accent.Green), B: clamp01(accent.Blue)}
	white := colorful.Color{R: 1, G: 1, B: 1}
	background := toRGBA(accentCol.BlendRgb(white, 0.92))
	headerTint := toRGBA(accentCol.BlendRgb(white, 0.7))
	accentRGBA := toRGBA(accentCol)
	ink := color.RGBA{30, 30, 30, 255}

	img := image.NewRGBA(image.Rect(0, 0, baseWidth, baseHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	// Header: badge circle plus name and subtitle.
	fillRect(img, image.Rect(0, 0, baseWidth, headerHeight), headerTint)
	fillCircle(img, 30, headerHeight/2, 18, accentRGBA)
	drawText(img, 58, 24, accentRGBA, c.Name)
	if c.Subtitle != nil {
		drawText(img, 58, 42, ink, *c.Subtitle)
	}

	r.drawArt(img, c)

	// Metadata band.
	fillRect(img, image.Rect(0, artBottom+10, baseWidth, artBottom+34), color.RGBA{25, 25, 25, 255})
	drawText(img, margin, artBottom+17, color.RGBA{235, 235, 235, 255}, metaLine(c))

	y := artBottom + 52
	y = drawBlock(img, y, accentRGBA, ink, "EFFECT", c.Effect)
	if c.MasterEffect != nil {
		y = drawBlock(img, y, accentRGBA, ink, "MASTER EFFECT", *c.MasterEffect)
	}
	if c.Drawback != nil {
		y = drawBlock(img, y, accentRGBA, ink, "DRAWBACK", *c.Drawback)
	}
	drawBlock(img, y, accentRGBA, color.RGBA{90, 90, 90, 255}, "", c.FlavorText)

	return img
}

// drawArt composites <id>.jpg (or .png) from the images directory into the
// art panel, scaled to fit. Missing or undecodable art gets a placeholder.
func (r *CardRenderer) drawArt(img *image.RGBA, c card.Card) {
	panel := image.Rect(margin, artTop, baseWidth-margin, artBottom)

	art := r.loadArt(c.ID)
	if art == nil {
		fillRect(img, panel, color.RGBA{210, 210, 210, 255})
		drawText(img, panel.Min.X+10, (artTop+artBottom)/2-6, color.RGBA{120, 120, 120, 255}, c.Name+" (no art)")
		return
	}

	fitted := resize.Thumbnail(uint(panel.Dx()), uint(panel.Dy()), art, resize.Lanczos3)
	bounds := fitted.Bounds()
	offset := image.Pt(
		panel.Min.X+(panel.Dx()-bounds.Dx())/2,
		panel.Min.Y+(panel.Dy()-bounds.Dy())/2,
	)
	draw.Draw(img, bounds.Add(offset.Sub(bounds.Min)), fitted, bounds.Min, draw.Over)
}

func (r *CardRenderer) loadArt(id string) image.Image {
	if r.imagesDir == "" {
		return nil
	}
	for _, ext := range []string{".jpg", ".png"} {
		path := filepath.Join(r.imagesDir, id+ext)
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		art, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			r.logger.Warn("undecodable card art",
				logging.Args(logging.String("path", path), logging.Error(err))...)
			continue
		}
		return art
	}
	return nil
}

func metaLine(c card.Card) string {
	line := string(c.Type)
	if c.StanceType != nil {
		line += " / " + string(*c.StanceType)
	}
	line += fmt.Sprintf(" | Cost %d | %s (avg %.1f) | %s",
		c.Cost, c.FocusDie, c.FocusDie.AverageValue(), c.RangeRestriction)
	if c.IsLegacy != nil && *c.IsLegacy {
		line += " | Legacy"
	}
	return line
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}
