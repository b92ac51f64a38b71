package thumbnails

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// FaceDetector counts frontal faces in an image.
type FaceDetector interface {
	CountFaces(img image.Image) (int, error)
}

const (
	faceShiftFactor  = 0.1
	faceScaleFactor  = 1.1
	faceIoUThreshold = 0.2
)

// PigoDetector runs a pigo pixel-intensity cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	minSize    int
	minQuality float32
}

// LoadPigoDetector unpacks the cascade at path. minSize is the smallest face
// edge in pixels; detections below minQuality are ignored.
func LoadPigoDetector(path string, minSize int, minQuality float64) (*PigoDetector, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("face cascade path not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade %s: %w", path, err)
	}
	if minSize <= 0 {
		minSize = 40
	}
	return &PigoDetector{classifier: classifier, minSize: minSize, minQuality: float32(minQuality)}, nil
}

// CountFaces returns the number of clustered detections at or above the
// quality threshold.
func (d *PigoDetector) CountFaces(img image.Image) (int, error) {
	if d == nil || d.classifier == nil {
		return 0, errors.New("face detector not loaded")
	}
	src := imaging.Clone(img)
	cols, rows := src.Rect.Dx(), src.Rect.Dy()
	maxSize := min(cols, rows)
	if maxSize < d.minSize {
		return 0, nil
	}

	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     maxSize,
		ShiftFactor: faceShiftFactor,
		ScaleFactor: faceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}
	detections := d.classifier.RunCascade(params, 0.0)
	detections = d.classifier.ClusterDetections(detections, faceIoUThreshold)

	count := 0
	for _, det := range detections {
		if det.Q >= d.minQuality {
			count++
		}
	}
	return count, nil
}
