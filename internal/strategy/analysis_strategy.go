package strategy

import (
	"image"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/pkg/models"
)

// Outcome is what a strategy produced for one image
type Outcome struct {
	Result models.AnalysisResult
	Detail *models.DetailedAnalysis

	// Cause is the analysis error a lenient strategy replaced with the Unknown sentinel
	Cause error
}

// AnalysisStrategy decides how analysis failures are reported
type AnalysisStrategy interface {
	Analyze(img image.Image, options analyzer.AnalysisOptions) (Outcome, error)
	GetStrategyName() string
}

// SentinelAnalysisStrategy reports failures as the Unknown result
type SentinelAnalysisStrategy struct {
	analyzer analyzer.ImageAnalyzer
}

// NewSentinelAnalysisStrategy creates a strategy that never returns an analysis error
func NewSentinelAnalysisStrategy(analyzer analyzer.ImageAnalyzer) AnalysisStrategy {
	return &SentinelAnalysisStrategy{
		analyzer: analyzer,
	}
}

// Analyze performs analysis, substituting Unknown on failure
func (s *SentinelAnalysisStrategy) Analyze(img image.Image, options analyzer.AnalysisOptions) (Outcome, error) {
	outcome, err := run(s.analyzer, img, options)
	if err != nil {
		return Outcome{Result: models.UnknownResult(), Cause: err}, nil
	}
	return outcome, nil
}

// GetStrategyName returns the strategy name
func (s *SentinelAnalysisStrategy) GetStrategyName() string {
	return "sentinel"
}

// StrictAnalysisStrategy surfaces analysis failures as errors
type StrictAnalysisStrategy struct {
	analyzer analyzer.ImageAnalyzer
}

// NewStrictAnalysisStrategy creates a strategy that returns analysis errors
func NewStrictAnalysisStrategy(analyzer analyzer.ImageAnalyzer) AnalysisStrategy {
	return &StrictAnalysisStrategy{
		analyzer: analyzer,
	}
}

// Analyze performs analysis and returns any failure to the caller
func (s *StrictAnalysisStrategy) Analyze(img image.Image, options analyzer.AnalysisOptions) (Outcome, error) {
	outcome, err := run(s.analyzer, img, options)
	if err != nil {
		return Outcome{Result: models.UnknownResult(), Cause: err}, err
	}
	return outcome, nil
}

// GetStrategyName returns the strategy name
func (s *StrictAnalysisStrategy) GetStrategyName() string {
	return "strict"
}

// ForOptions picks the strategy matching options.Strict
func ForOptions(a analyzer.ImageAnalyzer, options analyzer.AnalysisOptions) AnalysisStrategy {
	if options.Strict {
		return NewStrictAnalysisStrategy(a)
	}
	return NewSentinelAnalysisStrategy(a)
}

func run(a analyzer.ImageAnalyzer, img image.Image, options analyzer.AnalysisOptions) (Outcome, error) {
	if !options.Detailed {
		result, err := a.Analyze(img)
		return Outcome{Result: result}, err
	}

	detail, err := a.AnalyzeDetailed(img, options)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Result: detail.Result, Detail: &detail}, nil
}
