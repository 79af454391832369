package catalog

import (
	"fmt"
	"sort"

	"github.com/duelcraft/cardpress/internal/card"
)

// ValidationResults collects problems found in a decoded catalog. Errors are
// violations of catalog invariants; warnings are suspect but tolerated shapes.
type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Validate checks invariants the decoder deliberately does not enforce:
// global card id uniqueness, type/stanceType consistency, color channel
// ranges, and empty styles. The decoder stays permissive so that historical
// catalogs keep loading; this reports what a maintainer should look at.
func Validate(c Catalog) ValidationResults {
	var results ValidationResults

	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string) // card id -> style that first used it
	for _, name := range names {
		style := c[name]

		if len(style.Cards) == 0 {
			results.Warnings = append(results.Warnings,
				fmt.Sprintf("style %q has no cards", name))
		}
		if !channelInRange(style.Color.Red) || !channelInRange(style.Color.Green) || !channelInRange(style.Color.Blue) {
			results.Warnings = append(results.Warnings,
				fmt.Sprintf("style %q color channels outside 0-1: %+v", name, style.Color))
		}

		for _, cd := range style.Cards {
			if owner, ok := seen[cd.ID]; ok {
				results.Errors = append(results.Errors,
					fmt.Sprintf("duplicate card id %q in style %q (first seen in %q)", cd.ID, name, owner))
			} else {
				seen[cd.ID] = name
			}

			if cd.Type != card.TypeStance && cd.StanceType != nil {
				results.Warnings = append(results.Warnings,
					fmt.Sprintf("card %q is a %s but carries stanceType %q", cd.ID, cd.Type, *cd.StanceType))
			}
			if cd.Type == card.TypeStance && cd.StanceType == nil {
				results.Warnings = append(results.Warnings,
					fmt.Sprintf("stance card %q has no stanceType", cd.ID))
			}
		}
	}

	return results
}

func channelInRange(v float64) bool {
	return v >= 0 && v <= 1
}
