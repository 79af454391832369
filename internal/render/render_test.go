package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/duelcraft/cardpress/internal/card"
	"github.com/duelcraft/cardpress/internal/catalog"
	"github.com/duelcraft/cardpress/internal/logging"
)

var testAccent = catalog.Color{Red: 0.0, Green: 0.0, Blue: 0.8}

func TestRenderProducesScaledPNG(t *testing.T) {
	r := NewCardRenderer("", 3, logging.NewNop())
	data, err := r.Render(context.Background(), card.MockStanceCard(), "bolt.horizontal.fill", testAccent)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != baseWidth*3 || bounds.Dy() != baseHeight*3 {
		t.Errorf("dimensions = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), baseWidth*3, baseHeight*3)
	}
}

func TestRenderScaleClamped(t *testing.T) {
	r := NewCardRenderer("", 0, logging.NewNop())
	data, err := r.Render(context.Background(), card.MockAttackCard(), "hammer.fill", testAccent)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != baseWidth {
		t.Errorf("width = %d, want unscaled %d", img.Bounds().Dx(), baseWidth)
	}
}

func TestRenderMissingArtIsNotAnError(t *testing.T) {
	r := NewCardRenderer(t.TempDir(), 1, logging.NewNop())
	if _, err := r.Render(context.Background(), card.MockLegacyCard(), "heart.fill", testAccent); err != nil {
		t.Errorf("missing art must degrade to placeholder, got %v", err)
	}
}

func TestRenderCompositesArtFile(t *testing.T) {
	dir := t.TempDir()
	c := card.MockStanceCard()

	// A solid red art file the placeholder path would never produce.
	art := image.NewRGBA(image.Rect(0, 0, 100, 100))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			art.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, art); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, c.ID+".png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	withArt := NewCardRenderer(dir, 1, logging.NewNop())
	without := NewCardRenderer("", 1, logging.NewNop())

	a, err := withArt.Render(context.Background(), c, "", testAccent)
	if err != nil {
		t.Fatal(err)
	}
	b, err := without.Render(context.Background(), c, "", testAccent)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("art file had no effect on the rendered output")
	}
}

func TestRenderDoesNotMutateCard(t *testing.T) {
	r := NewCardRenderer("", 1, logging.NewNop())
	c := card.MockLegacyCard()
	before := c.Encode()
	if _, err := r.Render(context.Background(), c, "", testAccent); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, c.Encode()) {
		t.Error("Render mutated the card")
	}
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewCardRenderer("", 1, logging.NewNop())
	if _, err := r.Render(ctx, card.MockStanceCard(), "", testAccent); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestWrapText(t *testing.T) {
	lines := WrapText("one two three four five", 10)
	want := []string{"one two", "three four", "five"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("WrapText = %v, want %v", lines, want)
	}
	if got := WrapText("", 40); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("empty input = %v", got)
	}
	// Widths below the clamp fall back to the default wrap width.
	if got := WrapText("one two three four five", 5); len(got) != 1 {
		t.Errorf("clamped width = %v, want a single line", got)
	}
}
