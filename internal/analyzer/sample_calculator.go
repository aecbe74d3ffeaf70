package analyzer

import (
	"image"
	"image/color"
	"sync"

	"github.com/cenkalti/dominantcolor"
	"gonum.org/v1/gonum/stat"
)

// maxPooledSamples bounds the luma buffers kept for reuse
const maxPooledSamples = 1 << 20

// sampleCalculator implements SampleCalculator using Gonum statistics
type sampleCalculator struct {
	slicePool sync.Pool
}

// NewSampleCalculator creates a new sample calculator
func NewSampleCalculator() SampleCalculator {
	return &sampleCalculator{
		slicePool: sync.Pool{
			New: func() interface{} {
				buf := make([]float64, 0, 1024)
				return &buf
			},
		},
	}
}

// CalculateLumaStdDev returns the standard deviation of per-pixel luma. A high
// value means the sample mixes liquid with glare, foam or background.
func (sc *sampleCalculator) CalculateLumaStdDev(img image.Image) float64 {
	if img == nil {
		return 0
	}
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n < 2 {
		return 0
	}

	buf := sc.slicePool.Get().(*[]float64)
	data := (*buf)[:0]
	if cap(data) < n {
		data = make([]float64, 0, n)
	}
	defer func() {
		if cap(data) <= maxPooledSamples {
			*buf = data[:0]
			sc.slicePool.Put(buf)
		}
	}()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, Luma(RGBColor{R: float64(c.R), G: float64(c.G), B: float64(c.B)}))
		}
	}

	_, std := stat.MeanStdDev(data, nil)
	return std
}

// FindDominantColor returns the most prominent colour cluster of img
func (sc *sampleCalculator) FindDominantColor(img image.Image) (color.RGBA, bool) {
	if img == nil || img.Bounds().Empty() {
		return color.RGBA{}, false
	}
	candidates := dominantcolor.FindWeight(img, 1)
	if len(candidates) == 0 {
		return color.RGBA{}, false
	}
	return candidates[0].RGBA, true
}
