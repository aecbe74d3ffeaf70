package validation

// SampleThresholds defines configurable thresholds for sample validation
type SampleThresholds struct {
	// Smallest sampled square side, in pixels, considered representative
	MinSampleSide int

	// Lab lightness below which the reading is dominated by noise
	MinLightness float64

	// Luma standard deviation above which the sample mixes liquid with glare or background
	MaxLumaStdDev float64

	// Lab lightness above which the sample is likely glare, foam or an empty glass
	MaxLightness float64
}

// DefaultSampleThresholds returns the default sample thresholds
func DefaultSampleThresholds() SampleThresholds {
	return SampleThresholds{
		MinSampleSide: 16,
		MinLightness:  20.0,
		MaxLumaStdDev: 35.0,
		MaxLightness:  97.0,
	}
}

// SampleValidator checks whether a sampled region is likely to give a reliable reading
type SampleValidator struct {
	thresholds SampleThresholds
}

// NewSampleValidator creates a new sample validator with default thresholds
func NewSampleValidator() *SampleValidator {
	return &SampleValidator{
		thresholds: DefaultSampleThresholds(),
	}
}

// NewSampleValidatorWithThresholds creates a sample validator with custom thresholds
func NewSampleValidatorWithThresholds(thresholds SampleThresholds) *SampleValidator {
	return &SampleValidator{
		thresholds: thresholds,
	}
}

// SampleIssue represents a sample validation issue
type SampleIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning", "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// SampleMetrics represents the metrics needed for sample validation
type SampleMetrics struct {
	SampleSide int
	Cropped    bool
	Lightness  float64

	// Negative when uniformity was not measured
	LumaStdDev float64
}

// ValidateSample returns the issues found for a sampled region
func (sv *SampleValidator) ValidateSample(metrics SampleMetrics) []SampleIssue {
	var issues []SampleIssue

	if !metrics.Cropped {
		issues = append(issues, SampleIssue{
			Type:     "crop_fallback",
			Message:  "Centre crop was not possible, the whole image was averaged.",
			Severity: "warning",
		})
	}

	if metrics.SampleSide < sv.thresholds.MinSampleSide {
		issues = append(issues, SampleIssue{
			Type:        "small_sample",
			Message:     "Sampled area is very small. Use a higher resolution photo.",
			Severity:    "warning",
			ActualValue: float64(metrics.SampleSide),
			Threshold:   float64(sv.thresholds.MinSampleSide),
		})
	}

	if metrics.Lightness < sv.thresholds.MinLightness {
		issues = append(issues, SampleIssue{
			Type:        "too_dark",
			Message:     "Sample is very dark. Photograph the glass against a bright background.",
			Severity:    "warning",
			ActualValue: metrics.Lightness,
			Threshold:   sv.thresholds.MinLightness,
		})
	}

	if metrics.Lightness > sv.thresholds.MaxLightness {
		issues = append(issues, SampleIssue{
			Type:        "too_bright",
			Message:     "Sample is almost white. Make sure the beer fills the centre of the frame.",
			Severity:    "warning",
			ActualValue: metrics.Lightness,
			Threshold:   sv.thresholds.MaxLightness,
		})
	}

	if metrics.LumaStdDev > sv.thresholds.MaxLumaStdDev {
		issues = append(issues, SampleIssue{
			Type:        "non_uniform",
			Message:     "Sample is not uniform. Avoid glare, foam and background in the centre of the frame.",
			Severity:    "warning",
			ActualValue: metrics.LumaStdDev,
			Threshold:   sv.thresholds.MaxLumaStdDev,
		})
	}

	return issues
}

// ConvertIssuesToMessages converts sample issues to simple messages
func (sv *SampleValidator) ConvertIssuesToMessages(issues []SampleIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (sv *SampleValidator) HasCriticalIssues(issues []SampleIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
