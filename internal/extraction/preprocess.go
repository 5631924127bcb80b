package extraction

import (
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"
)

const (
	contrastFactor   = 2.0
	medianWindowSize = 3
)

// sharpenKernel is the classic 3x3 sharpen mask, normalized by its sum (16)
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// Preprocessor normalizes a receipt photo for text recognition.
// It holds no state and is safe for concurrent use.
type Preprocessor struct{}

// Process applies, in order: grayscale, contrast x2.0, sharpen, 3x3 median.
// The returned image is single-channel.
func (Preprocessor) Process(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	contrasted := enhanceContrast(gray, contrastFactor)
	sharpened := imaging.Convolve3x3(contrasted, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
	return medianFilter(sharpened, medianWindowSize)
}

// enhanceContrast scales every pixel away from the mean luminance by factor.
// Input must already be grayscale, so the red channel is the luminance.
func enhanceContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := meanLuminance(img)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := clampUint8(mean + factor*(float64(c.R)-mean))
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}

func meanLuminance(img *image.NRGBA) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			sum += uint64(row[x])
		}
	}
	// round to the nearest integer level like a histogram mean would
	return float64(int(float64(sum)/float64(n) + 0.5))
}

// medianFilter replaces each pixel with the median of its size x size
// neighbourhood, replicating edge pixels.
func medianFilter(img *image.NRGBA, size int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	radius := size / 2
	window := make([]uint8, 0, size*size)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					window = append(window, img.Pix[sy*img.Stride+sx*4])
				}
			}
			slices.Sort(window)
			out.Pix[y*out.Stride+x] = window[len(window)/2]
		}
	}
	return out
}

func clampUint8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
