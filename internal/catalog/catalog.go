package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/duelcraft/cardpress/internal/card"
)

// FightingStyle is a named group of cards sharing theme metadata. The cards
// slice preserves the order stored in the source file; that order is the
// display and export order.
type FightingStyle struct {
	StyleName             string
	StyleDescription      string
	StyleType             StyleType
	RangePreference       RangePreference
	HistoricalInspiration *string
	Icon                  string
	Color                 Color
	Cards                 []card.Card
}

// Color holds normalized 0-1 channel values for a style's accent color.
type Color struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// StyleType distinguishes martial and magical fighting styles.
type StyleType string

const (
	StyleMartial StyleType = "Martial"
	StyleMagical StyleType = "Magical"
)

// ParseStyleType parses a raw style type string.
func ParseStyleType(raw string) (StyleType, error) {
	switch StyleType(raw) {
	case StyleMartial, StyleMagical:
		return StyleType(raw), nil
	}
	return "", &card.UnrecognizedValueError{Field: "styleType", Value: raw}
}

// RangePreference describes the range a style favors.
type RangePreference string

const (
	PreferClose    RangePreference = "Close Range"
	PreferFar      RangePreference = "Far Range"
	PreferFlexible RangePreference = "Flexible Range"
)

// ParseRangePreference parses a raw range preference string.
func ParseRangePreference(raw string) (RangePreference, error) {
	switch RangePreference(raw) {
	case PreferClose, PreferFar, PreferFlexible:
		return RangePreference(raw), nil
	}
	return "", &card.UnrecognizedValueError{Field: "rangePreference", Value: raw}
}

// Catalog maps group keys to fighting styles. Keys need not equal StyleName.
// A catalog is built once per successful decode and never mutated afterwards.
type Catalog map[string]FightingStyle

// TotalCards returns the number of cards across all styles.
func (c Catalog) TotalCards() int {
	total := 0
	for _, style := range c {
		total += len(style.Cards)
	}
	return total
}

// Stats summarizes a catalog for display.
type Stats struct {
	Styles       int
	TotalCards   int
	CardsByStyle map[string]int
}

// Stats counts styles and cards, keyed by group name.
func (c Catalog) Stats() Stats {
	stats := Stats{
		Styles:       len(c),
		CardsByStyle: make(map[string]int, len(c)),
	}
	for name, style := range c {
		stats.CardsByStyle[name] = len(style.Cards)
		stats.TotalCards += len(style.Cards)
	}
	return stats
}

// FindCard looks a card up by id, returning the card and the style that owns it.
func (c Catalog) FindCard(id string) (card.Card, FightingStyle, bool) {
	for _, style := range c {
		for _, cd := range style.Cards {
			if cd.ID == id {
				return cd, style, true
			}
		}
	}
	return card.Card{}, FightingStyle{}, false
}

// DecodeError reports a catalog decode failure with enough context to name
// the offending group and card. A failed decode never yields a partial
// catalog; the whole load fails.
type DecodeError struct {
	Group     string
	CardIndex int // -1 when the failure is in group metadata
	CardID    string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("catalog: %v", e.Err)
	}
	if e.CardIndex < 0 {
		return fmt.Sprintf("catalog: style %q: %v", e.Group, e.Err)
	}
	if e.CardID != "" {
		return fmt.Sprintf("catalog: style %q: card %q (index %d): %v", e.Group, e.CardID, e.CardIndex, e.Err)
	}
	return fmt.Sprintf("catalog: style %q: card at index %d: %v", e.Group, e.CardIndex, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// rawStyle mirrors the on-disk group shape. Pointer fields distinguish absent
// keys from zero values.
type rawStyle struct {
	StyleName             *string          `json:"styleName"`
	StyleDescription      *string          `json:"styleDescription"`
	StyleType             *string          `json:"styleType"`
	RangePreference       *string          `json:"rangePreference"`
	HistoricalInspiration *string          `json:"historicalInspiration"`
	Icon                  *string          `json:"sfSymbol"`
	Color                 *Color           `json:"color"`
	Cards                 []map[string]any `json:"cards"`
}

// Decode parses raw catalog bytes into a Catalog. The decode is all or
// nothing: the first invalid record or malformed group fails the whole load.
func Decode(data []byte) (Catalog, error) {
	var groups map[string]rawStyle
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, &DecodeError{CardIndex: -1, Err: err}
	}
	// A JSON null unmarshals into a nil map without error; that is not a
	// catalog.
	if groups == nil {
		return nil, &DecodeError{CardIndex: -1, Err: fmt.Errorf("top-level value is null")}
	}

	catalog := make(Catalog, len(groups))
	for name, raw := range groups {
		style, err := decodeStyle(name, raw)
		if err != nil {
			return nil, err
		}

		cards := make([]card.Card, 0, len(raw.Cards))
		for i, fields := range raw.Cards {
			c, err := card.Decode(fields)
			if err != nil {
				id, _ := fields["id"].(string)
				return nil, &DecodeError{Group: name, CardIndex: i, CardID: id, Err: err}
			}
			cards = append(cards, c)
		}
		style.Cards = cards
		catalog[name] = style
	}
	return catalog, nil
}

// Load reads and decodes a catalog file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Decode(data)
}

func decodeStyle(group string, raw rawStyle) (FightingStyle, error) {
	fail := func(err error) (FightingStyle, error) {
		return FightingStyle{}, &DecodeError{Group: group, CardIndex: -1, Err: err}
	}

	if raw.StyleName == nil {
		return fail(&card.MissingFieldError{Field: "styleName"})
	}
	if raw.StyleDescription == nil {
		return fail(&card.MissingFieldError{Field: "styleDescription"})
	}
	if raw.StyleType == nil {
		return fail(&card.MissingFieldError{Field: "styleType"})
	}
	if raw.RangePreference == nil {
		return fail(&card.MissingFieldError{Field: "rangePreference"})
	}
	if raw.Icon == nil {
		return fail(&card.MissingFieldError{Field: "sfSymbol"})
	}
	if raw.Color == nil {
		return fail(&card.MissingFieldError{Field: "color"})
	}

	styleType, err := ParseStyleType(*raw.StyleType)
	if err != nil {
		return fail(err)
	}
	rangePref, err := ParseRangePreference(*raw.RangePreference)
	if err != nil {
		return fail(err)
	}

	return FightingStyle{
		StyleName:             *raw.StyleName,
		StyleDescription:      *raw.StyleDescription,
		StyleType:             styleType,
		RangePreference:       rangePref,
		HistoricalInspiration: raw.HistoricalInspiration,
		Icon:                  *raw.Icon,
		Color:                 *raw.Color,
	}, nil
}
