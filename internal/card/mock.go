package card

// Mock card constructors shared by the package tests.

func strptr(s string) *string { return &s }

// MockStanceCard returns a sample stance card.
func MockStanceCard() Card {
	stance := StanceAggressive
	return Card{
		ID:               "LS-01",
		Name:             "Vom Tag",
		Subtitle:         strptr("From the Roof"),
		Type:             TypeStance,
		StanceType:       &stance,
		Cost:             2,
		FocusDie:         FocusD8,
		Effect:           "Enter the Vom Tag stance. While in this stance, your attacks deal +1 damage.",
		MasterEffect:     strptr("If you've played 2+ Longsword cards this turn, also draw 1 card when you deal damage."),
		FlavorText:       "The swordsman holds the blade high overhead, muscles coiled like a spring, ready to deliver crushing overhead blows.",
		RangeRestriction: RangeAny,
	}
}

// MockAttackCard returns a sample attack card with historical notes.
func MockAttackCard() Card {
	return Card{
		ID:                    "BA-04",
		Name:                  "Brotna",
		Subtitle:              strptr("Sunder Strike"),
		Type:                  TypeAttack,
		Cost:                  3,
		FocusDie:              FocusD12,
		Effect:                "Deal 2 damage. You may spend up to 3 Momentum to add that much additional damage. Lose all Momentum after this effect resolves.",
		MasterEffect:          strptr("If you've played 2+ Battle Axe cards this turn, this attack also forces your opponent to discard a Focus card."),
		FlavorText:            "The axe-wielder channels accumulated force into a single devastating overhead chop capable of splitting shields and crushing armor with sheer power.",
		RangeRestriction:      RangeCloseOnly,
		HistoricalInspiration: strptr("From Old Norse 'brotna' meaning 'to break'. Based on archaeological evidence of shield damage patterns and saga accounts of axes breaking through shields and armor in a single powerful blow."),
	}
}

// MockLegacyCard returns a sample legacy card with a drawback.
func MockLegacyCard() Card {
	legacy := true
	return Card{
		ID:               "BM-L1",
		Name:             "Ancestral Sacrifice",
		Subtitle:         strptr("Legacy Attack"),
		Type:             TypeAttack,
		Cost:             3,
		FocusDie:         FocusD12,
		Effect:           "Lose 3 health. Deal 5 damage that cannot be reduced by defensive effects. Gain Vitality equal to the damage dealt.",
		FlavorText:       "The blood rite passed down through your lineage draws upon primal forces that even the most accomplished mages fear to touch, its power matched only by its terrible cost.",
		RangeRestriction: RangeAny,
		Drawback:         strptr("You cannot heal or gain health from any source until the end of your next turn."),
		IsLegacy:         &legacy,
	}
}
