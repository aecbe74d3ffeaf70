package models

import "testing"

func TestUnknownResult(t *testing.T) {
	r := UnknownResult()
	if !r.IsUnknown() {
		t.Error("Expected Unknown sentinel")
	}
	if r.EBCValue != 0 || r.Accuracy != 0 || r.RGB != (RGB{}) {
		t.Errorf("Expected zero values, got %+v", r)
	}
	if r.Hex() != "#000000" {
		t.Errorf("Expected black swatch, got %s", r.Hex())
	}
}

func TestAnalysisResult_FormattedEBC(t *testing.T) {
	tests := []struct {
		ebc  float64
		want string
	}{
		{0, "0.0"},
		{4.51, "4.5"},
		{7.496, "7.5"},
		{12.26, "12.3"},
		{100, "100.0"},
	}

	for _, tt := range tests {
		got := AnalysisResult{EBCValue: tt.ebc}.FormattedEBC()
		if got != tt.want {
			t.Errorf("FormattedEBC(%v) = %s, want %s", tt.ebc, got, tt.want)
		}
	}
}

func TestAnalysisResult_AccuracyDescription(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     string
	}{
		{1.0, "High"},
		{0.81, "High"},
		{0.8, "Medium"},
		{0.51, "Medium"},
		{0.5, "Low"},
		{0.3, "Low"},
		{0, "Low"},
	}

	for _, tt := range tests {
		got := AnalysisResult{Accuracy: tt.accuracy}.AccuracyDescription()
		if got != tt.want {
			t.Errorf("AccuracyDescription(%v) = %s, want %s", tt.accuracy, got, tt.want)
		}
	}
}

func TestAnalysisResult_Hex(t *testing.T) {
	tests := []struct {
		rgb  RGB
		want string
	}{
		{RGB{200, 150, 50}, "#c89632"},
		{RGB{255, 255, 255}, "#ffffff"},
		{RGB{0, 0, 0}, "#000000"},
		{RGB{300, -5, 16}, "#ff0010"},
	}

	for _, tt := range tests {
		got := AnalysisResult{RGB: tt.rgb}.Hex()
		if got != tt.want {
			t.Errorf("Hex(%+v) = %s, want %s", tt.rgb, got, tt.want)
		}
	}
}

func TestNewAnalysisResponse(t *testing.T) {
	result := AnalysisResult{EBCValue: 4.51, ColorName: "Straw", Accuracy: 0.62, RGB: RGB{200, 150, 50}}

	resp := NewAnalysisResponse("https://example.com/beer.jpg", result)
	if resp.Source != "https://example.com/beer.jpg" {
		t.Errorf("Unexpected source %q", resp.Source)
	}
	if resp.FormattedEBC != "4.5" || resp.AccuracyLabel != "Medium" || resp.SwatchHex != "#c89632" {
		t.Errorf("Unexpected derived fields %+v", resp)
	}
	if resp.Detail != nil {
		t.Error("Expected no detail by default")
	}
}
