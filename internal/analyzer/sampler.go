package analyzer

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"sync"
)

// CropFraction is the side of the sampled square relative to the shorter image side
const CropFraction = 0.4

// parallelThreshold is the pixel count above which averaging is split into strips
const parallelThreshold = 100000

// ErrEmptyImage is returned when an image has no readable pixels
var ErrEmptyImage = errors.New("image has no readable pixels")

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CenterSquare returns the centred square sampled from bounds. The rectangle is
// empty when the square would be smaller than one pixel.
func CenterSquare(bounds image.Rectangle) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	squareSize := int(float64(min(width, height)) * CropFraction)
	if squareSize <= 0 {
		return image.Rectangle{}
	}

	originX := bounds.Min.X + width/2 - squareSize/2
	originY := bounds.Min.Y + height/2 - squareSize/2
	return image.Rect(originX, originY, originX+squareSize, originY+squareSize)
}

// CropToCenterSquare crops img to its centred sampling square. If the square is
// invalid or img cannot be cropped, img is returned unchanged and cropped is false.
func CropToCenterSquare(img image.Image) (cropped image.Image, ok bool) {
	if img == nil {
		return img, false
	}
	rect := CenterSquare(img.Bounds())
	if rect.Empty() || !rect.In(img.Bounds()) {
		return img, false
	}
	si, isSub := img.(subImager)
	if !isSub {
		return img, false
	}
	sub := si.SubImage(rect)
	if sub == nil || sub.Bounds().Empty() {
		return img, false
	}
	return sub, true
}

type channelSums struct {
	r, g, b uint64
	pixels  int
}

// AverageColor returns the unweighted mean colour of every pixel in img.
// Channels are read un-premultiplied, so alpha neither weights nor darkens the mean.
func AverageColor(img image.Image) (RGBColor, error) {
	if img == nil {
		return RGBColor{}, ErrEmptyImage
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return RGBColor{}, ErrEmptyImage
	}

	var total channelSums
	if width*height < parallelThreshold {
		total = sumRows(img, bounds.Min.Y, bounds.Max.Y)
	} else {
		total = sumParallel(img)
	}
	if total.pixels == 0 {
		return RGBColor{}, ErrEmptyImage
	}

	n := float64(total.pixels)
	return RGBColor{
		R: float64(total.r) / n,
		G: float64(total.g) / n,
		B: float64(total.b) / n,
	}, nil
}

// sumParallel sums horizontal strips concurrently. Integer sums keep the result
// independent of how the image was split.
func sumParallel(img image.Image) channelSums {
	bounds := img.Bounds()
	height := bounds.Dy()

	numWorkers := min(runtime.NumCPU(), height)
	if numWorkers <= 0 {
		numWorkers = 1
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	strips := make([]channelSums, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := bounds.Min.Y + i*rowsPerWorker
		endY := min(startY+rowsPerWorker, bounds.Max.Y)
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(i, startY, endY int) {
			defer wg.Done()
			strips[i] = sumRows(img, startY, endY)
		}(i, startY, endY)
	}
	wg.Wait()

	var total channelSums
	for _, s := range strips {
		total.r += s.r
		total.g += s.g
		total.b += s.b
		total.pixels += s.pixels
	}
	return total
}

func sumRows(img image.Image, startY, endY int) channelSums {
	bounds := img.Bounds()
	var s channelSums
	for y := startY; y < endY; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			s.r += uint64(c.R)
			s.g += uint64(c.G)
			s.b += uint64(c.B)
			s.pixels++
		}
	}
	return s
}
