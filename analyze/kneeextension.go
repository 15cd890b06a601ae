package analyze

import (
	"math"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// KneeExtension scores the sitting knee extension test.  The patient sits
// upright and straightens one knee.  A patient with poor lumbar motor
// control rocks the pelvis backwards and slumps the trunk as the hamstring
// comes under tension, so the trunk and hips must stay still while only
// the knee moves
type KneeExtension struct {
	// Params are the analyzer configuration parameters
	Params Params
}

// NewKneeExtension returns an instance of the sitting knee extension
// analyzer
func NewKneeExtension(p Params) *KneeExtension {
	return &KneeExtension{Params: p}
}

// kneeExtensionWeights are the fixed clinical weights of the sub-metrics,
// in metric order: lumbar stillness, knee range of motion, trunk
// stability, hip compensation
var kneeExtensionWeights = []float64{0.40, 0.30, 0.15, 0.15}

var kneeExtensionRemarks = map[string]string{
	"lumbar stillness": "The trunk rocked backwards as the knee " +
		"straightened. Keep the low back tall against the hamstring pull.",
	"knee range of motion": "The knee did not reach full extension. " +
		"Extend only as far as the trunk can stay still.",
	"trunk stability": "The shoulders swayed during the extension. Sit " +
		"tall with hands resting on the thighs.",
	"hip compensation": "The hips shifted to assist the movement. Keep " +
		"both sit bones evenly weighted.",
}

var kneeExtensionExercises = []string{
	"Suggested exercise: seated knee extension against a wall for trunk " +
		"feedback, 3x8 per side.",
	"Suggested exercise: seated pelvic tilts to find and hold neutral, 3x10.",
}

// Test returns the test type this analyzer scores
func (a *KneeExtension) Test() TestType {
	return SittingKneeExtension
}

// Analyze scores the recorded sitting knee extension attempt
func (a *KneeExtension) Analyze(current lumbarcheck.Frame,
	history []lumbarcheck.Frame) Result {

	frames := usableFrames(history)

	if len(frames) == 0 {
		return insufficientResult(a.Test())
	}

	if !current.AllVisible(a.Params.Visibility,
		lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder,
		lumbarcheck.LeftHip, lumbarcheck.RightHip,
		lumbarcheck.LeftKnee, lumbarcheck.RightKnee,
		lumbarcheck.LeftAnkle, lumbarcheck.RightAnkle) {
		return missingResult(a.Test())
	}

	// representative frame is the instant of maximum knee extension
	peak, ok := peakFrame(frames, maxKneeAngle, true)

	if !ok {
		return insufficientResult(a.Test())
	}

	start := frames[0]

	kneeAngle := maxKneeAngle(peak)
	trunkDrift := math.Abs(trunkLean(peak) - trunkLean(start))
	hipDrift := math.Abs(meanHipAngle(peak) - meanHipAngle(start))

	metrics := []Metric{
		{Name: "lumbar stillness", Value: trunkDrift},
		{Name: "knee range of motion", Value: kneeAngle},
		{
			Name: "trunk stability",
			Value: geometry.MovementStability(frames, []int{
				lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder,
			}),
		},
		{Name: "hip compensation", Value: hipDrift},
	}

	metrics[0].Score = bandScore(trunkDrift, 0, 5, 5, 25)
	metrics[1].Score = bandScore(kneeAngle, 160, 180, 70, 20)
	metrics[2].Score = metrics[2].Value
	metrics[3].Score = bandScore(hipDrift, 0, 10, 10, 30)

	score := weighted(metrics, kneeExtensionWeights)

	return Result{
		Test:    a.Test(),
		Score:   score,
		Metrics: metrics,
		Feedback: buildFeedback(a.Test(), score, metrics,
			kneeExtensionRemarks, kneeExtensionExercises,
			a.Params.RemarkThreshold),
	}
}

// maxKneeAngle measures the larger of the two hip-knee-ankle angles of a
// frame, identifying the extending side
func maxKneeAngle(f lumbarcheck.Frame) float64 {

	pts := f.Points()

	left := geometry.Angle(pts[lumbarcheck.LeftHip],
		pts[lumbarcheck.LeftKnee], pts[lumbarcheck.LeftAnkle])

	right := geometry.Angle(pts[lumbarcheck.RightHip],
		pts[lumbarcheck.RightKnee], pts[lumbarcheck.RightAnkle])

	if left > right {
		return left
	}

	return right
}
