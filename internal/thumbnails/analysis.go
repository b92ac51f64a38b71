package thumbnails

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// sharpnessSigma is the gaussian blur radius the sharpness signal compares against.
const sharpnessSigma = 2.0

// Frame is a decoded candidate image handed to each scoring stage.
type Frame struct {
	Image image.Image
	// Gray is the Rec.601 grayscale rendition; every channel holds the luma.
	Gray *image.NRGBA
}

// DecodeFrame decodes JPEG, PNG, GIF, or WebP bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return NewFrame(img)
}

// NewFrame wraps an already decoded image.
func NewFrame(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("decode image: nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decode image: empty bounds %v", b)
	}
	return &Frame{Image: img, Gray: imaging.Grayscale(img)}, nil
}

// MeanLuminance is the average grayscale value in [0, 255].
func (f *Frame) MeanLuminance() float64 {
	return meanChannel(f.Gray)
}

// MeanBlurDifference is the mean absolute difference between the grayscale
// image and a gaussian-blurred copy of itself. Crisp edges raise it.
func (f *Frame) MeanBlurDifference() float64 {
	blurred := imaging.Blur(f.Gray, sharpnessSigma)
	return meanAbsDiff(f.Gray, blurred)
}

func meanChannel(img *image.NRGBA) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			sum += uint64(row[x])
		}
	}
	return float64(sum) / float64(w*h)
}

func meanAbsDiff(a, b *image.NRGBA) float64 {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w != b.Rect.Dx() || h != b.Rect.Dy() || w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		rowA := a.Pix[y*a.Stride : y*a.Stride+w*4]
		rowB := b.Pix[y*b.Stride : y*b.Stride+w*4]
		for x := 0; x < len(rowA); x += 4 {
			if rowA[x] > rowB[x] {
				sum += uint64(rowA[x] - rowB[x])
			} else {
				sum += uint64(rowB[x] - rowA[x])
			}
		}
	}
	return float64(sum) / float64(w*h)
}
