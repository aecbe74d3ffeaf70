package analyzer

import "math"

// RGBColor is an averaged sRGB colour, channels on the 0-255 scale
type RGBColor struct {
	R, G, B float64
}

// LabColor is a CIE L*a*b* colour; L is perceptual lightness in [0,100]
type LabColor struct {
	L, A, B float64
}

// D65 reference white
const (
	refX = 95.047
	refY = 100.0
	refZ = 108.883
)

// RGBToLab converts an sRGB colour to CIE L*a*b* (D65)
func RGBToLab(c RGBColor) LabColor {
	r := linearize(c.R/255.0) * 100
	g := linearize(c.G/255.0) * 100
	b := linearize(c.B/255.0) * 100

	x := r*0.4124 + g*0.3576 + b*0.1805
	y := r*0.2126 + g*0.7152 + b*0.0722
	z := r*0.0193 + g*0.1192 + b*0.9505

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return LabColor{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// linearize removes the sRGB transfer curve from a channel in [0,1]
func linearize(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Pow(t, 1.0/3.0)
	}
	return 7.787*t + 16.0/116.0
}

// Luma returns the Rec. 601 weighted brightness on the 0-255 scale
func Luma(c RGBColor) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
