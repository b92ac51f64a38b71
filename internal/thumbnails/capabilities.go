package thumbnails

import "strings"

// Capabilities records which optional scoring stages this process can run.
// It is built once at startup and passed to the Scorer and Selector.
type Capabilities struct {
	// ImageAnalysis allows downloading and decoding candidate images.
	ImageAnalysis bool
	// FaceDetection allows the face stage; it requires ImageAnalysis.
	FaceDetection bool
	// FaceDetail explains why face detection is unavailable, if it is.
	FaceDetail string
}

// NewCapabilities derives the capability set from configuration and the
// optional face detector that was (or was not) loaded.
func NewCapabilities(imageAnalysis bool, detector FaceDetector, faceDetail string) Capabilities {
	caps := Capabilities{ImageAnalysis: imageAnalysis}
	switch {
	case !imageAnalysis:
		caps.FaceDetail = "image analysis disabled"
	case detector == nil:
		caps.FaceDetail = strings.TrimSpace(faceDetail)
		if caps.FaceDetail == "" {
			caps.FaceDetail = "no face cascade configured"
		}
	default:
		caps.FaceDetection = true
	}
	return caps
}

// Describe summarizes the capability set for status output.
func (c Capabilities) Describe() string {
	switch {
	case !c.ImageAnalysis:
		return "fallback only (image analysis disabled)"
	case c.FaceDetection:
		return "brightness, sharpness, faces"
	default:
		return "brightness, sharpness"
	}
}
