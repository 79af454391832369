package card

// Card represents a single trading card belonging to a fighting style.
type Card struct {
	ID       string
	Name     string
	Subtitle *string

	Type       Type
	StanceType *StanceType

	Cost     int
	FocusDie FocusDie

	Effect       string
	MasterEffect *string
	FlavorText   string

	RangeRestriction RangeRestriction

	// Legacy card properties
	Drawback *string
	IsLegacy *bool

	HistoricalInspiration *string
}

// Type classifies a card's role in play.
type Type string

const (
	TypeStance    Type = "Stance"
	TypeAttack    Type = "Attack"
	TypeReaction  Type = "Reaction"
	TypeTechnique Type = "Technique"
)

// ParseType parses a raw card type string.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeStance, TypeAttack, TypeReaction, TypeTechnique:
		return Type(raw), nil
	}
	return "", &UnrecognizedValueError{Field: "type", Value: raw}
}

// StanceType refines a Stance card's posture.
type StanceType string

const (
	StanceAggressive StanceType = "Aggressive"
	StanceDefensive  StanceType = "Defensive"
	StanceEvasive    StanceType = "Evasive"
)

// ParseStanceType parses a raw stance type string.
func ParseStanceType(raw string) (StanceType, error) {
	switch StanceType(raw) {
	case StanceAggressive, StanceDefensive, StanceEvasive:
		return StanceType(raw), nil
	}
	return "", &UnrecognizedValueError{Field: "stanceType", Value: raw}
}

// FocusDie identifies the die size a card rolls for focus.
type FocusDie string

const (
	FocusD4  FocusDie = "d4"
	FocusD6  FocusDie = "d6"
	FocusD8  FocusDie = "d8"
	FocusD10 FocusDie = "d10"
	FocusD12 FocusDie = "d12"
)

// ParseFocusDie parses a raw focus die string.
func ParseFocusDie(raw string) (FocusDie, error) {
	switch FocusDie(raw) {
	case FocusD4, FocusD6, FocusD8, FocusD10, FocusD12:
		return FocusDie(raw), nil
	}
	return "", &UnrecognizedValueError{Field: "focusDie", Value: raw}
}

// Sides returns the number of faces on the die.
func (d FocusDie) Sides() int {
	switch d {
	case FocusD4:
		return 4
	case FocusD6:
		return 6
	case FocusD8:
		return 8
	case FocusD10:
		return 10
	case FocusD12:
		return 12
	}
	return 0
}

// AverageValue returns the expected value of a single roll.
func (d FocusDie) AverageValue() float64 {
	return float64(d.Sides()+1) / 2.0
}

// RangeRestriction constrains the ranges at which a card may be played.
type RangeRestriction string

const (
	RangeAny          RangeRestriction = "Any"
	RangeCloseOnly    RangeRestriction = "Close Range Only"
	RangeFarOnly      RangeRestriction = "Far Range Only"
	RangeFarPreferred RangeRestriction = "Far Range preferred"
)

// rangeSpellings maps each canonical range restriction to the raw spellings
// accepted for it. Several legacy spellings survive in older catalog files and
// must keep decoding; matching is exact and case-sensitive.
var rangeSpellings = map[RangeRestriction][]string{
	RangeAny:          {"Any"},
	RangeCloseOnly:    {"Close Range Only", "Close Range only"},
	RangeFarOnly:      {"Far Range Only", "Far Range Only (unless modified)"},
	RangeFarPreferred: {"Far Range preferred", "Far Range Preferred"},
}

// ParseRangeRestriction normalizes a raw range restriction spelling to its
// canonical value.
func ParseRangeRestriction(raw string) (RangeRestriction, error) {
	for canonical, accepted := range rangeSpellings {
		for _, spelling := range accepted {
			if raw == spelling {
				return canonical, nil
			}
		}
	}
	return "", &UnrecognizedValueError{Field: "rangeRestriction", Value: raw}
}
