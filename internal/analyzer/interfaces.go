package analyzer

import (
	"image"
	"image/color"
)

// ImageAnalyzer defines the main interface for beer colour analysis
type ImageAnalyzer interface {
	// Analyze returns ErrEmptyImage when no colour can be sampled
	Analyze(img image.Image) (AnalysisResult, error)

	// AnalyzeOrUnknown maps every failure to the Unknown sentinel result
	AnalyzeOrUnknown(img image.Image) AnalysisResult

	// AnalyzeDetailed also reports intermediates, sample statistics and warnings
	AnalyzeDetailed(img image.Image, options AnalysisOptions) (DetailedAnalysis, error)

	// Lifecycle management
	Close() error
}

// SampleCalculator computes diagnostics over the sampled region
type SampleCalculator interface {
	CalculateLumaStdDev(img image.Image) float64
	FindDominantColor(img image.Image) (color.RGBA, bool)
}
