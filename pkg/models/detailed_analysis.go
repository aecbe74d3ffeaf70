package models

// DetailedAnalysis extends AnalysisResult with the intermediate values of the pipeline
type DetailedAnalysis struct {
	Result AnalysisResult `json:"result" yaml:"result"`

	// Colour science intermediates
	Lab  LabValues `json:"lab" yaml:"lab"`
	Luma float64   `json:"luma" yaml:"luma"`
	SRM  float64   `json:"srm" yaml:"srm"`

	// Sampled region
	Sample SampleStats `json:"sample" yaml:"sample"`

	// Bands either side of the matched band, empty at the ends of the table
	LighterBand string `json:"lighter_band,omitempty" yaml:"lighter_band,omitempty"`
	DarkerBand  string `json:"darker_band,omitempty" yaml:"darker_band,omitempty"`

	// Sample quality warnings, informational only
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// LabValues holds a CIE L*a*b* triple
type LabValues struct {
	L float64 `json:"l" yaml:"l"`
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
}

// SampleStats describes the region the colour was averaged over
type SampleStats struct {
	ImageWidth  int     `json:"image_width" yaml:"image_width"`
	ImageHeight int     `json:"image_height" yaml:"image_height"`
	SampleSide  int     `json:"sample_side" yaml:"sample_side"`
	Cropped     bool    `json:"cropped" yaml:"cropped"`
	PixelCount  int     `json:"pixel_count" yaml:"pixel_count"`
	MeanR       float64 `json:"mean_r" yaml:"mean_r"`
	MeanG       float64 `json:"mean_g" yaml:"mean_g"`
	MeanB       float64 `json:"mean_b" yaml:"mean_b"`
	LumaStdDev  float64 `json:"luma_std_dev" yaml:"luma_std_dev"`
	DominantHex string  `json:"dominant_hex,omitempty" yaml:"dominant_hex,omitempty"`
}

// Band describes one entry of the EBC colour table
type Band struct {
	Name string  `json:"name" yaml:"name"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	// OpenEnded marks the darkest band, which also catches values above Max
	OpenEnded bool `json:"open_ended,omitempty" yaml:"open_ended,omitempty"`
}
