package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	"image/png"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/duelcraft/cardpress/internal/card"
	"github.com/duelcraft/cardpress/internal/catalog"
	"github.com/duelcraft/cardpress/internal/render"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display a card in the terminal with ANSI art",
	Long: `Show renders a card and displays it as ANSI terminal art next to its
rule text. Cards are looked up by id across every style in the catalog.

Examples:
  cardpress show LS-01
  cardpress show --catalog ./cards.json BA-04`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		catalogPath, _ := cmd.Flags().GetString("catalog")
		if catalogPath == "" {
			catalogPath = cfg.CatalogPath
		}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return fmt.Errorf("error loading catalog: %v", err)
		}

		c, style, ok := cat.FindCard(cardID)
		if !ok {
			return fmt.Errorf("card not found: %s", cardID)
		}

		// Render the card at base size and downsample it to terminal art.
		renderer := render.NewCardRenderer(cfg.CardImagesDir, 1, logger)
		data, err := renderer.Render(cmd.Context(), c, style.Icon, style.Color)
		if err != nil {
			return fmt.Errorf("error rendering card: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("error decoding rendered card: %v", err)
		}

		displayCard(c, style, imageToAnsi(img, 28, 39))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("catalog", "c", "", "Catalog file to read (default: configured catalog_path)")
}

// imageToAnsi converts an image to ANSI art using half-block characters.
func imageToAnsi(img image.Image, width, height int) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Four pixels make up one character cell.
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			// Top pixels as foreground, bottom pixels as background.
			upperHalfFg := averageColor(col1, col2)
			lowerHalfBg := averageColor(col3, col4)

			buffer.WriteString(ansiColorString('▀', upperHalfFg, lowerHalfBg))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// ansiColorString formats a character with truecolor ANSI codes
func ansiColorString(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.Clamped().RGB255()
	r2, g2, b2 := bg.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}

// displayCard prints the ANSI art next to the card's metadata and rule text.
func displayCard(c card.Card, style catalog.FightingStyle, ansiArt string) {
	ansiLines := strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		// Visible width excludes ANSI escape sequences.
		if w := len(stripAnsi(line)); w > maxAnsiWidth {
			maxAnsiWidth = w
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:  ")+colorize.HiWhiteString("%s", c.Name))
	if c.Subtitle != nil {
		infoLines = append(infoLines, colorize.CyanString("       ")+colorize.WhiteString("%s", *c.Subtitle))
	}
	infoLines = append(infoLines, colorize.CyanString("Style: ")+colorize.HiWhiteString("%s (%s)", style.StyleName, style.StyleType))
	infoLines = append(infoLines, colorize.CyanString("ID:    ")+colorize.HiWhiteString(c.ID))

	typeLine := string(c.Type)
	if c.StanceType != nil {
		typeLine += fmt.Sprintf(" · %s", *c.StanceType)
	}
	if c.IsLegacy != nil && *c.IsLegacy {
		typeLine += " · Legacy"
	}
	infoLines = append(infoLines, colorize.CyanString("Type:  ")+colorize.HiWhiteString(typeLine))
	infoLines = append(infoLines, colorize.CyanString("Cost:  ")+colorize.HiWhiteString("%d", c.Cost))
	infoLines = append(infoLines, colorize.CyanString("Focus: ")+
		colorize.HiWhiteString("%s (%d sides, avg %.1f)", c.FocusDie, c.FocusDie.Sides(), c.FocusDie.AverageValue()))
	infoLines = append(infoLines, colorize.CyanString("Range: ")+colorize.HiWhiteString("%s", c.RangeRestriction))

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	appendBlock := func(heading, body string) {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString(heading))
		infoLines = append(infoLines, render.WrapText(body, infoWidth)...)
	}
	appendBlock("Effect:", c.Effect)
	if c.MasterEffect != nil {
		appendBlock("Master Effect:", *c.MasterEffect)
	}
	if c.Drawback != nil {
		appendBlock("Drawback:", *c.Drawback)
	}
	appendBlock("Flavor:", c.FlavorText)

	fmt.Println()
	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := len(stripAnsi(ansiLines[i]))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}
		fmt.Println()
	}
	fmt.Println()
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
