package analyzer

import (
	"image"

	"go-beer-ebc/pkg/models"
)

// AnalysisResult is an alias to the shared models.AnalysisResult
type AnalysisResult = models.AnalysisResult

// DetailedAnalysis is an alias to the shared models.DetailedAnalysis
type DetailedAnalysis = models.DetailedAnalysis

// measurement holds the intermediate values of one analysis
type measurement struct {
	sample  image.Image
	cropped bool
	average RGBColor
	lab     LabColor
	ebc     float64
	band    int
}
