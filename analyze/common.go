// Package analyze implements the per-test movement analyzers that convert a
// recorded landmark history into clinical sub-scores and feedback.
package analyze

import (
	"fmt"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// TestType identifies one of the standardized lumbar motor-control
// movement tests
type TestType int

const (
	StandingHipFlexion TestType = iota
	WaitersBow
	SittingKneeExtension
	PelvicTilt
	DeepSquat
)

// String returns the display name of the test
func (t TestType) String() string {
	switch t {
	case StandingHipFlexion:
		return "Standing Hip Flexion"
	case WaitersBow:
		return "Waiter's Bow"
	case SittingKneeExtension:
		return "Sitting Knee Extension"
	case PelvicTilt:
		return "Pelvic Tilt"
	case DeepSquat:
		return "Deep Squat"
	default:
		return fmt.Sprintf("TestType(%d)", int(t))
	}
}

// TestTypes returns all supported test types
func TestTypes() []TestType {
	return []TestType{
		StandingHipFlexion,
		WaitersBow,
		SittingKneeExtension,
		PelvicTilt,
		DeepSquat,
	}
}

// ParseTestType maps a CLI friendly test name to its TestType
func ParseTestType(name string) (TestType, error) {
	switch name {
	case "hip-flexion":
		return StandingHipFlexion, nil
	case "waiters-bow":
		return WaitersBow, nil
	case "knee-extension":
		return SittingKneeExtension, nil
	case "pelvic-tilt":
		return PelvicTilt, nil
	case "squat":
		return DeepSquat, nil
	default:
		return 0, fmt.Errorf("unknown test type %q", name)
	}
}

// Metric is one named clinical sub-measurement contributing to a test's
// overall score.  Value is the raw measurement (usually degrees or
// normalized displacement) and Score its [0,100] rubric grade
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Score float64 `json:"score"`
}

// Result is the outcome of analyzing one recorded session.  It is immutable
// once produced.  Score is the weighted combination of the sub-metric
// scores, in [0,100]
type Result struct {
	Test     TestType `json:"test"`
	Score    float64  `json:"score"`
	Metrics  []Metric `json:"metrics"`
	Feedback []string `json:"feedback"`
}

// Analyzer is implemented by each movement test scorer.  Analyze never
// panics on missing or low confidence landmarks; it degrades to a zero
// score result carrying an explanatory feedback string
type Analyzer interface {
	// Test returns the test type this analyzer scores
	Test() TestType
	// Analyze scores the recorded frame history.  current is the last
	// captured frame and history the full ordered recording including it
	Analyze(current lumbarcheck.Frame, history []lumbarcheck.Frame) Result
}

// Params defines the analyzer configuration shared by all test types
type Params struct {
	// Visibility is the minimum landmark visibility score required for a
	// landmark to be used in scoring
	Visibility float64
	// RemarkThreshold is the sub-metric score below which a corrective
	// feedback remark is emitted
	RemarkThreshold float64
}

// DefaultParams returns an instance of Params configured with the default
// clinical thresholds:
// - Visibility: 0.5
// - Remark Threshold: 70
func DefaultParams() Params {
	return Params{
		Visibility:      lumbarcheck.DefaultVisibility,
		RemarkThreshold: 70,
	}
}

// NewAnalyzer returns the analyzer instance for the given test type.  The
// mapping is exhaustive over TestTypes
func NewAnalyzer(t TestType, p Params) (Analyzer, error) {
	switch t {
	case StandingHipFlexion:
		return NewHipFlexion(p), nil
	case WaitersBow:
		return NewBow(p), nil
	case SittingKneeExtension:
		return NewKneeExtension(p), nil
	case PelvicTilt:
		return NewTilt(p), nil
	case DeepSquat:
		return NewSquat(p), nil
	default:
		return nil, fmt.Errorf("no analyzer for test type %d", int(t))
	}
}

// bandScore grades a raw measurement against an ideal band.  Values inside
// [idealLo, idealHi] score 100; outside the band the score falls linearly
// to 0 over tolLo below and tolHi above.  The result is clamped to [0,100]
// so pathological inputs can never escape the score range
func bandScore(val, idealLo, idealHi, tolLo, tolHi float64) float64 {

	if val >= idealLo && val <= idealHi {
		return 100
	}

	if val < idealLo {
		return geometry.Clamp(100*(1-(idealLo-val)/tolLo), 0, 100)
	}

	return geometry.Clamp(100*(1-(val-idealHi)/tolHi), 0, 100)
}

// weighted combines sub-metric scores using the given parallel weights.
// Weights for each test are fixed constants summing to 1.0
func weighted(metrics []Metric, weights []float64) float64 {

	var score float64

	for i, m := range metrics {
		score += m.Score * weights[i]
	}

	return geometry.Clamp(score, 0, 100)
}

// missingResult is the degraded result returned when the landmarks a test
// requires are absent or below the visibility threshold
func missingResult(t TestType) Result {
	return Result{
		Test:  t,
		Score: 0,
		Feedback: []string{
			"Required body landmarks were not visible. Make sure the " +
				"whole body is in frame, well lit, and facing the camera.",
		},
	}
}

// insufficientResult is returned when the recording holds no usable frames
func insufficientResult(t TestType) Result {
	return Result{
		Test:  t,
		Score: 0,
		Feedback: []string{
			"Insufficient data: no usable frames were captured during " +
				"the recording. Try recording again.",
		},
	}
}

// summaryLine grades the overall score into a one line summary
func summaryLine(t TestType, score float64) string {

	var grade string

	switch {
	case score >= 90:
		grade = "excellent motor control"
	case score >= 70:
		grade = "good motor control with minor deviations"
	case score >= 50:
		grade = "fair motor control, practice recommended"
	default:
		grade = "poor motor control, guided training recommended"
	}

	return fmt.Sprintf("%s: score %.0f/100, %s.", t, score, grade)
}

// buildFeedback assembles the ordered feedback list: summary line first,
// then a remark for each sub-metric under the remark threshold, then
// exercise suggestions when the overall score is low
func buildFeedback(t TestType, score float64, metrics []Metric,
	remarks map[string]string, exercises []string, threshold float64) []string {

	feedback := []string{summaryLine(t, score)}

	for _, m := range metrics {
		if m.Score < threshold {
			if remark, ok := remarks[m.Name]; ok {
				feedback = append(feedback, remark)
			}
		}
	}

	if score < 50 {
		feedback = append(feedback, exercises...)
	}

	return feedback
}

// usableFrames filters the history down to frames with a full pose
func usableFrames(history []lumbarcheck.Frame) []lumbarcheck.Frame {

	frames := make([]lumbarcheck.Frame, 0, len(history))

	for _, f := range history {
		if f.HasPose() {
			frames = append(frames, f)
		}
	}

	return frames
}

// peakFrame scans the history for the frame minimizing or maximizing the
// given measure.  A panic inside the measure for a single frame skips that
// frame rather than aborting the whole analysis.  Returns false when no
// frame could be measured
func peakFrame(history []lumbarcheck.Frame, measure func(lumbarcheck.Frame) float64,
	max bool) (lumbarcheck.Frame, bool) {

	var best lumbarcheck.Frame
	var bestVal float64
	found := false

	for _, f := range history {

		val, ok := safeMeasure(f, measure)

		if !ok {
			continue
		}

		if !found || (max && val > bestVal) || (!max && val < bestVal) {
			best = f
			bestVal = val
			found = true
		}
	}

	return best, found
}

// safeMeasure evaluates measure on one frame, converting a panic into a
// skipped frame
func safeMeasure(f lumbarcheck.Frame, measure func(lumbarcheck.Frame) float64) (val float64, ok bool) {

	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if !f.HasPose() {
		return 0, false
	}

	return measure(f), true
}
