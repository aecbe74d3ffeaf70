package analyzer

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"go-beer-ebc/pkg/models"
)

type ebcBand struct {
	min, max float64
	name     string
}

// ebcBands is ordered from palest to darkest. A value v belongs to band i when
// max(i-1) < v <= max(i); the first band starts at its min and the last band is
// open-ended.
var ebcBands = [...]ebcBand{
	{0, 4, "Pale straw"},
	{5, 7, "Straw"},
	{8, 11, "Pale gold"},
	{12, 15, "Gold"},
	{16, 19, "Amber"},
	{20, 25, "Deep amber"},
	{26, 33, "Light copper"},
	{34, 39, "Copper"},
	{40, 47, "Dark copper"},
	{48, 57, "Light brown"},
	{58, 69, "Brown/Reddish brown"},
	{70, 79, "Dark brown"},
	{80, 100, "Very dark brown"},
	{101, 500, "Black"},
}

// Classify returns the name of the band containing ebc. Values that match no
// band (negative or NaN) get the darkest band's name.
func Classify(ebc float64) string {
	return ebcBands[classifyIndex(ebc)].name
}

func classifyIndex(ebc float64) int {
	last := len(ebcBands) - 1
	if !(ebc >= ebcBands[0].min) {
		return last
	}
	for i, b := range ebcBands {
		if ebc <= b.max {
			return i
		}
	}
	return last
}

// neighbourBands returns the names of the bands either side of index i
func neighbourBands(i int) (lighter, darker string) {
	if i > 0 {
		lighter = ebcBands[i-1].name
	}
	if i < len(ebcBands)-1 {
		darker = ebcBands[i+1].name
	}
	return lighter, darker
}

// Bands returns a copy of the classification table
func Bands() []models.Band {
	bands := make([]models.Band, len(ebcBands))
	for i, b := range ebcBands {
		bands[i] = toModelBand(i, b)
	}
	return bands
}

// LookupBand finds a band by name, ignoring case and tolerating small typos
func LookupBand(name string) (models.Band, bool) {
	query := normalizeBandName(name)
	if query == "" {
		return models.Band{}, false
	}

	best, bestDistance := -1, 0
	for i, b := range ebcBands {
		candidate := normalizeBandName(b.name)
		if candidate == query {
			return toModelBand(i, b), true
		}
		d := levenshtein.Distance(query, candidate)
		if best < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}

	if bestDistance > maxLookupDistance(query) {
		return models.Band{}, false
	}
	return toModelBand(best, ebcBands[best]), true
}

func maxLookupDistance(query string) int {
	return max(2, len(query)/3)
}

func normalizeBandName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func toModelBand(i int, b ebcBand) models.Band {
	return models.Band{
		Name:      b.name,
		Min:       b.min,
		Max:       b.max,
		OpenEnded: i == len(ebcBands)-1,
	}
}
