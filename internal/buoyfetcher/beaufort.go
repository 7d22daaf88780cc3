package buoyfetcher

import "github.com/oceanwx/marine-aggregator/internal/marine"

// beaufortStep is one row of the monotone Beaufort lookup: upperMPH is the
// inclusive upper bound of wind speed (mph) for this force.
type beaufortStep struct {
	force          int
	upperMPH       float64
	name           string
	seaDescription string
}

// beaufortTable is derived from the standard 0-12 Beaufort scale, with
// knot upper bounds converted to mph.
var beaufortTable = []beaufortStep{
	{0, 1.15, "Calm", "Sea like a mirror"},
	{1, 3.45, "Light Air", "Ripples without foam crests"},
	{2, 6.91, "Light Breeze", "Small wavelets, crests do not break"},
	{3, 11.51, "Gentle Breeze", "Large wavelets, crests begin to break"},
	{4, 18.41, "Moderate Breeze", "Small waves, becoming longer, frequent whitecaps"},
	{5, 24.17, "Fresh Breeze", "Moderate waves, many whitecaps, some spray"},
	{6, 31.07, "Strong Breeze", "Large waves begin to form, whitecaps everywhere"},
	{7, 37.98, "Near Gale", "Sea heaps up, foam blown in streaks"},
	{8, 46.03, "Gale", "Moderately high waves, edges of crests break into spindrift"},
	{9, 54.09, "Strong Gale", "High waves, dense foam, visibility affected"},
	{10, 63.29, "Storm", "Very high waves, sea surface white with foam"},
	{11, 72.50, "Violent Storm", "Exceptionally high waves, small/medium ships lost from view"},
	{12, -1, "Hurricane", "Air filled with foam, sea completely white, visibility greatly reduced"},
}

// beaufortCategory looks up the Beaufort force whose upper bound is the
// first to reach or exceed windMPH. A negative upperMPH means "no upper
// bound" (force 12).
func beaufortCategory(windMPH float64) marine.BeaufortCategory {
	for _, step := range beaufortTable {
		if step.upperMPH < 0 || windMPH <= step.upperMPH {
			return marine.BeaufortCategory{
				Force:          step.force,
				Name:           step.name,
				SeaDescription: step.seaDescription,
			}
		}
	}
	last := beaufortTable[len(beaufortTable)-1]
	return marine.BeaufortCategory{Force: last.force, Name: last.name, SeaDescription: last.seaDescription}
}
