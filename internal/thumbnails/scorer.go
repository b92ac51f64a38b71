package thumbnails

import (
	"context"
	"log/slog"

	"sitekit/internal/logging"
)

// ImageFetcher downloads candidate image bytes.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Diagnostics explains a score. Signal fields are nil when the signal was not
// measured.
type Diagnostics struct {
	Active     bool          `json:"active"`
	Width      int           `json:"w"`
	Height     int           `json:"h"`
	Brightness *float64      `json:"brightness"`
	Sharpness  *float64      `json:"sharp"`
	FaceCount  *int          `json:"face_count"`
	Stages     []StageResult `json:"stages,omitempty"`
}

// ScoreResult is the score of exactly one candidate.
type ScoreResult struct {
	Score       float64     `json:"score"`
	Base        float64     `json:"base"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Scorer combines the base score with the stages enabled by Capabilities.
type Scorer struct {
	caps    Capabilities
	fetcher ImageFetcher
	stages  []Stage
	logger  *slog.Logger
}

// NewScorer wires the stages allowed by caps. Image analysis is treated as
// unavailable when fetcher is nil, and face scoring when detector is nil.
func NewScorer(caps Capabilities, fetcher ImageFetcher, detector FaceDetector, logger *slog.Logger) *Scorer {
	if fetcher == nil {
		caps.ImageAnalysis = false
	}
	if !caps.ImageAnalysis || detector == nil {
		caps.FaceDetection = false
	}
	s := &Scorer{
		caps:    caps,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "thumbnail-scorer"),
	}
	if caps.ImageAnalysis {
		s.stages = append(s.stages, brightnessStage{}, sharpnessStage{})
	}
	if caps.FaceDetection {
		s.stages = append(s.stages, faceStage{detector: detector})
	}
	return s
}

// Capabilities returns the effective capability set.
func (s *Scorer) Capabilities() Capabilities {
	if s == nil {
		return Capabilities{}
	}
	return s.caps
}

// Score never fails: anything that goes wrong past the base score leaves the
// affected signals nil and the base score intact.
func (s *Scorer) Score(ctx context.Context, c Candidate) ScoreResult {
	base := BaseScore(c)
	result := ScoreResult{
		Score: base,
		Base:  base,
		Diagnostics: Diagnostics{
			Active: c.Active,
			Width:  c.Width,
			Height: c.Height,
		},
	}
	if s == nil || !s.caps.ImageAnalysis {
		for _, name := range []string{StageBrightness, StageSharpness, StageFaces} {
			result.Diagnostics.Stages = append(result.Diagnostics.Stages, skipped(name, ReasonImageAnalysisUnavailable))
		}
		return result
	}

	frame, err := s.loadFrame(ctx, c)
	if err != nil {
		s.logger.Debug("candidate image unavailable; using base score",
			logging.String("url", c.URL),
			logging.Error(err))
		for _, stage := range s.stages {
			result.Diagnostics.Stages = append(result.Diagnostics.Stages, skipped(stage.Name(), ReasonImageUnavailable+": "+err.Error()))
		}
		return result
	}

	for _, stage := range s.stages {
		res := runStage(ctx, stage, frame)
		result.Diagnostics.Stages = append(result.Diagnostics.Stages, res)
		if !res.Applied() {
			s.logger.Debug("scoring stage skipped",
				logging.String("stage", res.Stage),
				logging.String("reason", res.Reason))
			continue
		}
		result.Score += res.Contribution
		recordSignal(&result.Diagnostics, res)
	}
	return result
}

func (s *Scorer) loadFrame(ctx context.Context, c Candidate) (*Frame, error) {
	data, err := s.fetcher.FetchImage(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(data)
}

func recordSignal(d *Diagnostics, res StageResult) {
	if res.Value == nil {
		return
	}
	value := *res.Value
	switch res.Stage {
	case StageBrightness:
		d.Brightness = &value
	case StageSharpness:
		d.Sharpness = &value
	case StageFaces:
		count := int(value)
		d.FaceCount = &count
	}
}
