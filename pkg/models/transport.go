package models

// AnalysisRequest represents a request to analyse an image fetched over HTTP
type AnalysisRequest struct {
	URL      string `json:"url" yaml:"url" binding:"required,url"`
	Detailed bool   `json:"detailed,omitempty" yaml:"detailed,omitempty"`
	Strict   bool   `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// BlobAnalysisRequest represents a request to analyse an image held in blob storage
type BlobAnalysisRequest struct {
	BlobURL  string `json:"blob_url" yaml:"blob_url" binding:"required,url"`
	Detailed bool   `json:"detailed,omitempty" yaml:"detailed,omitempty"`
	Strict   bool   `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// BatchAnalysisRequest represents a request to analyse several images independently
type BatchAnalysisRequest struct {
	URLs     []string `json:"urls" yaml:"urls" binding:"required,min=1,dive,url"`
	Detailed bool     `json:"detailed,omitempty" yaml:"detailed,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" yaml:"error"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// AnalysisResponse is returned for every analysed image
type AnalysisResponse struct {
	Source            string            `json:"source" yaml:"source"`
	Timestamp         string            `json:"timestamp" yaml:"timestamp"`
	ProcessingTimeSec float64           `json:"processing_time_sec" yaml:"processing_time_sec"`
	Result            AnalysisResult    `json:"result" yaml:"result"`
	FormattedEBC      string            `json:"formatted_ebc" yaml:"formatted_ebc"`
	AccuracyLabel     string            `json:"accuracy_label" yaml:"accuracy_label"`
	SwatchHex         string            `json:"swatch_hex" yaml:"swatch_hex"`
	Detail            *DetailedAnalysis `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// BatchItem holds the outcome of one image in a batch
type BatchItem struct {
	Source   string            `json:"source" yaml:"source"`
	Response *AnalysisResponse `json:"response,omitempty" yaml:"response,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchAnalysisResponse is returned by the batch endpoint, in request order
type BatchAnalysisResponse struct {
	Items     []BatchItem `json:"items" yaml:"items"`
	Succeeded int         `json:"succeeded" yaml:"succeeded"`
	Failed    int         `json:"failed" yaml:"failed"`
}

// ClassificationResponse is returned when classifying a raw EBC value
type ClassificationResponse struct {
	EBCValue     float64 `json:"ebc_value" yaml:"ebc_value"`
	FormattedEBC string  `json:"formatted_ebc" yaml:"formatted_ebc"`
	ColorName    string  `json:"color_name" yaml:"color_name"`
}

// NewAnalysisResponse fills the derived display fields from a result
func NewAnalysisResponse(source string, result AnalysisResult) *AnalysisResponse {
	return &AnalysisResponse{
		Source:        source,
		Result:        result,
		FormattedEBC:  result.FormattedEBC(),
		AccuracyLabel: result.AccuracyDescription(),
		SwatchHex:     result.Hex(),
	}
}
