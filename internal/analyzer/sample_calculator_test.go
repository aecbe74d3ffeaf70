package analyzer

import (
	"image"
	"image/color"
	"sync"
	"testing"
)

func TestNewSampleCalculator(t *testing.T) {
	if NewSampleCalculator() == nil {
		t.Error("Expected non-nil sample calculator")
	}
}

func TestCalculateLumaStdDev(t *testing.T) {
	calc := NewSampleCalculator()

	uniform := createTestImage(20, 20, color.RGBA{90, 60, 30, 255})
	if std := calc.CalculateLumaStdDev(uniform); std > 1e-9 {
		t.Errorf("Expected ~0 deviation for uniform image, got %f", std)
	}

	split := createTestImage(20, 20, color.RGBA{0, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			split.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	if std := calc.CalculateLumaStdDev(split); std < 100 {
		t.Errorf("Expected high deviation for half black/half white image, got %f", std)
	}

	// Pooled slices must not leak values between calls
	if std := calc.CalculateLumaStdDev(uniform); std > 1e-9 {
		t.Errorf("Expected ~0 deviation on reuse, got %f", std)
	}
}

func TestCalculateLumaStdDev_BufferReuse(t *testing.T) {
	calc := NewSampleCalculator()

	// 64x64 outgrows the initial buffer; the smaller sample afterwards reuses it
	large := createGradientImage(64, 64)
	small := createTestImage(8, 8, color.RGBA{90, 60, 30, 255})

	want := calc.CalculateLumaStdDev(large)
	if want <= 0 {
		t.Fatalf("Expected positive deviation for gradient, got %f", want)
	}
	if std := calc.CalculateLumaStdDev(small); std > 1e-9 {
		t.Errorf("Expected ~0 deviation after a larger sample, got %f", std)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := calc.CalculateLumaStdDev(large); got != want {
				t.Errorf("Concurrent call returned %f, want %f", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestCalculateLumaStdDev_Degenerate(t *testing.T) {
	calc := NewSampleCalculator()

	if std := calc.CalculateLumaStdDev(nil); std != 0 {
		t.Errorf("Expected 0 for nil image, got %f", std)
	}
	if std := calc.CalculateLumaStdDev(createTestImage(1, 1, color.RGBA{1, 2, 3, 255})); std != 0 {
		t.Errorf("Expected 0 for single pixel, got %f", std)
	}
}

func TestFindDominantColor_Empty(t *testing.T) {
	calc := NewSampleCalculator()

	if _, ok := calc.FindDominantColor(nil); ok {
		t.Error("Expected no dominant colour for nil image")
	}
	if _, ok := calc.FindDominantColor(image.NewRGBA(image.Rect(0, 0, 0, 0))); ok {
		t.Error("Expected no dominant colour for empty image")
	}
}
