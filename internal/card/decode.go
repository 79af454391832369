package card

import (
	"fmt"
	"math"
)

// Decode builds a Card from a generic key-value record, the shape produced by
// unmarshalling one entry of a catalog's cards list. Required keys fail with
// MissingFieldError or TypeMismatchError; enumerated fields are normalized and
// fail with UnrecognizedValueError. Optional keys decode to nil when absent.
func Decode(fields map[string]any) (Card, error) {
	var c Card
	var err error

	if c.ID, err = requireString(fields, "id"); err != nil {
		return Card{}, err
	}
	if c.Name, err = requireString(fields, "name"); err != nil {
		return Card{}, err
	}
	if c.Subtitle, err = optionalString(fields, "subtitle"); err != nil {
		return Card{}, err
	}

	rawType, err := requireString(fields, "type")
	if err != nil {
		return Card{}, err
	}
	if c.Type, err = ParseType(rawType); err != nil {
		return Card{}, err
	}

	rawStance, err := optionalString(fields, "stanceType")
	if err != nil {
		return Card{}, err
	}
	if rawStance != nil {
		stance, err := ParseStanceType(*rawStance)
		if err != nil {
			return Card{}, err
		}
		c.StanceType = &stance
	}

	if c.Cost, err = requireInt(fields, "cost"); err != nil {
		return Card{}, err
	}

	rawDie, err := requireString(fields, "focusDie")
	if err != nil {
		return Card{}, err
	}
	if c.FocusDie, err = ParseFocusDie(rawDie); err != nil {
		return Card{}, err
	}

	if c.Effect, err = requireString(fields, "effect"); err != nil {
		return Card{}, err
	}
	if c.MasterEffect, err = optionalString(fields, "masterEffect"); err != nil {
		return Card{}, err
	}
	if c.FlavorText, err = requireString(fields, "flavorText"); err != nil {
		return Card{}, err
	}

	rawRange, err := requireString(fields, "rangeRestriction")
	if err != nil {
		return Card{}, err
	}
	if c.RangeRestriction, err = ParseRangeRestriction(rawRange); err != nil {
		return Card{}, err
	}

	if c.Drawback, err = optionalString(fields, "drawback"); err != nil {
		return Card{}, err
	}
	if c.IsLegacy, err = optionalBool(fields, "isLegacy"); err != nil {
		return Card{}, err
	}
	if c.HistoricalInspiration, err = optionalString(fields, "historicalInspiration"); err != nil {
		return Card{}, err
	}

	return c, nil
}

// Encode renders the card back into the key-value shape Decode consumes.
// Optional fields that are nil are omitted rather than written as empty values.
func (c Card) Encode() map[string]any {
	fields := map[string]any{
		"id":               c.ID,
		"name":             c.Name,
		"type":             string(c.Type),
		"cost":             float64(c.Cost),
		"focusDie":         string(c.FocusDie),
		"effect":           c.Effect,
		"flavorText":       c.FlavorText,
		"rangeRestriction": string(c.RangeRestriction),
	}
	if c.Subtitle != nil {
		fields["subtitle"] = *c.Subtitle
	}
	if c.StanceType != nil {
		fields["stanceType"] = string(*c.StanceType)
	}
	if c.MasterEffect != nil {
		fields["masterEffect"] = *c.MasterEffect
	}
	if c.Drawback != nil {
		fields["drawback"] = *c.Drawback
	}
	if c.IsLegacy != nil {
		fields["isLegacy"] = *c.IsLegacy
	}
	if c.HistoricalInspiration != nil {
		fields["historicalInspiration"] = *c.HistoricalInspiration
	}
	return fields
}

func requireString(fields map[string]any, key string) (string, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := value.(string)
	if !ok {
		return "", &TypeMismatchError{Field: key, Expected: "string", Actual: typeName(value)}
	}
	return s, nil
}

func optionalString(fields map[string]any, key string) (*string, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Expected: "string", Actual: typeName(value)}
	}
	return &s, nil
}

// requireInt accepts either a native int or a JSON number with no fractional
// part. encoding/json hands numbers over as float64.
func requireInt(fields map[string]any, key string) (int, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return 0, &MissingFieldError{Field: key}
	}
	switch n := value.(type) {
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &TypeMismatchError{Field: key, Expected: "integer", Actual: fmt.Sprintf("number %v", n)}
		}
		return int(n), nil
	}
	return 0, &TypeMismatchError{Field: key, Expected: "integer", Actual: typeName(value)}
}

func optionalBool(fields map[string]any, key string) (*bool, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil, nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Expected: "bool", Actual: typeName(value)}
	}
	return &b, nil
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", value)
}
