package thumbnails

import (
	"context"
	"fmt"
	"math"
)

// StageStatus reports whether a stage contributed to the score.
type StageStatus string

const (
	StageApplied StageStatus = "applied"
	StageSkipped StageStatus = "skipped"
)

// Skip reasons recorded when a stage never ran.
const (
	ReasonImageAnalysisUnavailable = "image_analysis_unavailable"
	ReasonImageUnavailable         = "image_unavailable"
)

// StageResult is the outcome of one scoring stage for one candidate.
type StageResult struct {
	Stage        string      `json:"stage"`
	Status       StageStatus `json:"status"`
	Value        *float64    `json:"value"`
	Contribution float64     `json:"contribution"`
	Reason       string      `json:"reason,omitempty"`
}

// Applied reports whether the stage produced a signal.
func (r StageResult) Applied() bool { return r.Status == StageApplied }

func applied(stage string, value, contribution float64) StageResult {
	return StageResult{Stage: stage, Status: StageApplied, Value: &value, Contribution: contribution}
}

func skipped(stage, reason string) StageResult {
	return StageResult{Stage: stage, Status: StageSkipped, Reason: reason}
}

// Stage is one optional image signal.
type Stage interface {
	Name() string
	Evaluate(ctx context.Context, frame *Frame) StageResult
}

// runStage evaluates stage, converting a panic into a skipped result so one
// stage can never abort scoring.
func runStage(ctx context.Context, stage Stage, frame *Frame) (result StageResult) {
	defer func() {
		if r := recover(); r != nil {
			result = skipped(stage.Name(), fmt.Sprintf("panic: %v", r))
		}
	}()
	result = stage.Evaluate(ctx, frame)
	result.Stage = stage.Name()
	if result.Applied() && (math.IsNaN(result.Contribution) || math.IsInf(result.Contribution, 0)) {
		return skipped(stage.Name(), "non-finite contribution")
	}
	return result
}

const (
	StageBrightness = "brightness"
	StageSharpness  = "sharpness"
	StageFaces      = "faces"
)

// brightnessStage rewards mid-gray exposure: +2.0 at 128, falling linearly
// to 0 at either extreme.
type brightnessStage struct{}

func (brightnessStage) Name() string { return StageBrightness }

func (brightnessStage) Evaluate(_ context.Context, frame *Frame) StageResult {
	bright := frame.MeanLuminance()
	return applied(StageBrightness, bright, BrightnessReward(bright))
}

// BrightnessReward is the brightness stage contribution for a mean luminance.
func BrightnessReward(mean float64) float64 {
	return math.Max(0, 2.0-(math.Abs(mean-128.0)/128.0)*2.0)
}

// sharpnessStage rewards detail lost to blurring, capped at 3.0.
type sharpnessStage struct{}

func (sharpnessStage) Name() string { return StageSharpness }

func (sharpnessStage) Evaluate(_ context.Context, frame *Frame) StageResult {
	diff := frame.MeanBlurDifference()
	return applied(StageSharpness, diff, SharpnessReward(diff))
}

// SharpnessReward is the sharpness stage contribution for a mean blur difference.
func SharpnessReward(meanDiff float64) float64 {
	return math.Min(meanDiff/12.0, 3.0)
}

// faceStage strongly favours thumbnails with people in them.
type faceStage struct {
	detector FaceDetector
}

func (faceStage) Name() string { return StageFaces }

func (s faceStage) Evaluate(_ context.Context, frame *Frame) StageResult {
	count, err := s.detector.CountFaces(frame.Image)
	if err != nil {
		return skipped(StageFaces, err.Error())
	}
	return applied(StageFaces, float64(count), FaceReward(count))
}

// FaceReward is the face stage contribution for a face count.
func FaceReward(count int) float64 {
	if count <= 0 {
		return 0
	}
	return 10.0 + 3.0*float64(count)
}
