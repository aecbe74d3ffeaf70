package analyzer

import (
	"math"

	"go-beer-ebc/pkg/models"
)

// Empirical, uncalibrated conversion factors. Keep them literal: results are
// compared against readings produced with exactly these values.
const (
	srmPerLuma = 1.4922
	ebcPerSRM  = 1.97

	minAccuracy = 0.3
	maxAccuracy = 1.0
)

// EstimateSRM approximates the SRM colour from the luma of the averaged colour
func EstimateSRM(c RGBColor) float64 {
	return srmPerLuma * Luma(c) / 100
}

// EstimateEBC approximates the EBC colour of the averaged colour
func EstimateEBC(c RGBColor) float64 {
	return ebcPerSRM * EstimateSRM(c)
}

// Accuracy derives a confidence score from Lab lightness, clamped to [0.3, 1.0]
func Accuracy(labL float64) float64 {
	return math.Min(maxAccuracy, math.Max(minAccuracy, labL/100.0))
}

// AccuracyLabel maps an accuracy score to High, Medium or Low
func AccuracyLabel(accuracy float64) string {
	return models.AnalysisResult{Accuracy: accuracy}.AccuracyDescription()
}
