package models

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// UnknownColorName is the band name reported when no colour could be sampled
const UnknownColorName = "Unknown"

// RGB is the sampled colour rounded to 8-bit channels for display
type RGB struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

// AnalysisResult represents the estimated colour of a beer photograph
type AnalysisResult struct {
	EBCValue  float64 `json:"ebc_value" yaml:"ebc_value"`
	ColorName string  `json:"color_name" yaml:"color_name"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"` // 0.0 to 1.0, higher is more reliable
	RGB       RGB     `json:"rgb" yaml:"rgb"`
}

// UnknownResult returns the sentinel shown when an image could not be analysed
func UnknownResult() AnalysisResult {
	return AnalysisResult{
		EBCValue:  0,
		ColorName: UnknownColorName,
		Accuracy:  0,
		RGB:       RGB{},
	}
}

// IsUnknown reports whether the result is the Unknown sentinel
func (r AnalysisResult) IsUnknown() bool {
	return r.ColorName == UnknownColorName
}

// FormattedEBC returns the EBC value with one decimal place
func (r AnalysisResult) FormattedEBC() string {
	return fmt.Sprintf("%.1f", r.EBCValue)
}

// AccuracyDescription maps the accuracy score to High, Medium or Low
func (r AnalysisResult) AccuracyDescription() string {
	switch {
	case r.Accuracy > 0.8:
		return "High"
	case r.Accuracy > 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

// Hex returns the swatch colour as #rrggbb
func (r AnalysisResult) Hex() string {
	c := colorful.Color{
		R: float64(r.RGB.R) / 255.0,
		G: float64(r.RGB.G) / 255.0,
		B: float64(r.RGB.B) / 255.0,
	}
	return c.Clamped().Hex()
}
