package analyzer

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"go-beer-ebc/pkg/models"
	"go-beer-ebc/pkg/validation"
)

// coreAnalyzer implements ImageAnalyzer. It holds no per-call state, so one
// instance can serve concurrent analyses.
type coreAnalyzer struct {
	calculator      SampleCalculator
	sampleValidator *validation.SampleValidator
}

// NewImageAnalyzer creates a new image analyzer with all components
func NewImageAnalyzer() (ImageAnalyzer, error) {
	return &coreAnalyzer{
		calculator:      NewSampleCalculator(),
		sampleValidator: validation.NewSampleValidator(),
	}, nil
}

// Analyze estimates the EBC colour of the beer in the centre of img
func (ca *coreAnalyzer) Analyze(img image.Image) (AnalysisResult, error) {
	m, err := ca.measure(img)
	if err != nil {
		return models.UnknownResult(), err
	}
	return m.result(), nil
}

// AnalyzeOrUnknown performs Analyze and substitutes the Unknown sentinel on failure
func (ca *coreAnalyzer) AnalyzeOrUnknown(img image.Image) AnalysisResult {
	result, err := ca.Analyze(img)
	if err != nil {
		return models.UnknownResult()
	}
	return result
}

// AnalyzeDetailed performs Analyze and reports how the result was reached
func (ca *coreAnalyzer) AnalyzeDetailed(img image.Image, options AnalysisOptions) (DetailedAnalysis, error) {
	m, err := ca.measure(img)
	if err != nil {
		return DetailedAnalysis{Result: models.UnknownResult()}, err
	}

	bounds := img.Bounds()
	sampleBounds := m.sample.Bounds()
	lighter, darker := neighbourBands(m.band)

	detail := DetailedAnalysis{
		Result: m.result(),
		Lab:    models.LabValues{L: m.lab.L, A: m.lab.A, B: m.lab.B},
		Luma:   Luma(m.average),
		SRM:    EstimateSRM(m.average),
		Sample: models.SampleStats{
			ImageWidth:  bounds.Dx(),
			ImageHeight: bounds.Dy(),
			SampleSide:  min(sampleBounds.Dx(), sampleBounds.Dy()),
			Cropped:     m.cropped,
			PixelCount:  sampleBounds.Dx() * sampleBounds.Dy(),
			MeanR:       m.average.R,
			MeanG:       m.average.G,
			MeanB:       m.average.B,
			LumaStdDev:  -1,
		},
		LighterBand: lighter,
		DarkerBand:  darker,
	}

	if !options.SkipUniformity {
		detail.Sample.LumaStdDev = ca.calculator.CalculateLumaStdDev(m.sample)
	}

	if !options.SkipDominantColor {
		if dominant, ok := ca.calculator.FindDominantColor(m.sample); ok {
			c, _ := colorful.MakeColor(dominant)
			detail.Sample.DominantHex = c.Hex()
		}
	}

	if !options.SkipValidation {
		issues := ca.sampleValidator.ValidateSample(validation.SampleMetrics{
			SampleSide: detail.Sample.SampleSide,
			Cropped:    m.cropped,
			Lightness:  m.lab.L,
			LumaStdDev: detail.Sample.LumaStdDev,
		})
		detail.Warnings = ca.sampleValidator.ConvertIssuesToMessages(issues)
	}

	return detail, nil
}

// Close releases analyzer resources
func (ca *coreAnalyzer) Close() error {
	return nil
}

// measure runs the sampling and colour pipeline shared by all analysis methods
func (ca *coreAnalyzer) measure(img image.Image) (*measurement, error) {
	if img == nil {
		return nil, fmt.Errorf("analyze: %w", ErrEmptyImage)
	}

	sample, cropped := CropToCenterSquare(img)
	average, err := AverageColor(sample)
	if err != nil {
		return nil, fmt.Errorf("average color: %w", err)
	}

	ebc := EstimateEBC(average)
	return &measurement{
		sample:  sample,
		cropped: cropped,
		average: average,
		lab:     RGBToLab(average),
		ebc:     ebc,
		band:    classifyIndex(ebc),
	}, nil
}

func (m *measurement) result() AnalysisResult {
	return AnalysisResult{
		EBCValue:  m.ebc,
		ColorName: ebcBands[m.band].name,
		Accuracy:  Accuracy(m.lab.L),
		RGB: models.RGB{
			R: displayChannel(m.average.R),
			G: displayChannel(m.average.G),
			B: displayChannel(m.average.B),
		},
	}
}

// displayChannel rounds an averaged channel to the nearest 8-bit value
func displayChannel(v float64) int {
	return int(math.Max(0, math.Min(255, math.Round(v))))
}
