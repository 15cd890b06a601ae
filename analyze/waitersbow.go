package analyze

import (
	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// Bow scores the waiter's bow test.  The patient hinges forward at the
// hips with a neutral spine and near straight knees.  Flexing the lumbar
// spine instead of the hips, or bending the knees to fake depth, are the
// compensation patterns the test screens for
type Bow struct {
	// Params are the analyzer configuration parameters
	Params Params
}

// NewBow returns an instance of the waiter's bow analyzer
func NewBow(p Params) *Bow {
	return &Bow{Params: p}
}

// bowWeights are the fixed clinical weights of the sub-metrics, in metric
// order: lumbar flexion control, hinge depth, knee compensation,
// movement smoothness
var bowWeights = []float64{0.40, 0.20, 0.20, 0.20}

var bowRemarks = map[string]string{
	"lumbar flexion control": "The low back rounded during the hinge. " +
		"Keep the spine long and move from the hips only.",
	"hinge depth": "The hinge was too shallow or too deep. Aim to tip the " +
		"trunk to roughly 50-60 degrees from upright.",
	"knee compensation": "The knees bent to gain depth. Keep a soft but " +
		"fixed knee angle through the whole bow.",
	"movement smoothness": "The descent was jerky. Lower over a slow " +
		"three second count.",
}

var bowExercises = []string{
	"Suggested exercise: hip hinge with a dowel held along the spine, 3x10.",
	"Suggested exercise: quadruped rock-backs keeping a neutral back, 3x12.",
}

// Test returns the test type this analyzer scores
func (a *Bow) Test() TestType {
	return WaitersBow
}

// Analyze scores the recorded waiter's bow attempt
func (a *Bow) Analyze(current lumbarcheck.Frame,
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

	// representative frame is the deepest point of the bow
	peak, ok := peakFrame(frames, trunkLean, true)

	if !ok {
		return insufficientResult(a.Test())
	}

	lean := trunkLean(peak)
	hipFlex := 180 - meanHipAngle(peak)
	kneeAngle := meanKneeAngle(peak)

	// if the trunk tipped further than the hips flexed, the difference was
	// produced by rounding the lumbar spine
	lumbarFlex := lean - hipFlex
	if lumbarFlex < 0 {
		lumbarFlex = 0
	}

	leanSeries := geometry.TrackSeries(frames, trunkLean)

	metrics := []Metric{
		{Name: "lumbar flexion control", Value: lumbarFlex},
		{Name: "hinge depth", Value: lean},
		{Name: "knee compensation", Value: kneeAngle},
		{Name: "movement smoothness", Value: geometry.Smoothness(leanSeries)},
	}

	metrics[0].Score = bandScore(lumbarFlex, 0, 10, 10, 30)
	metrics[1].Score = bandScore(lean, 45, 70, 35, 25)
	metrics[2].Score = bandScore(kneeAngle, 160, 180, 50, 20)
	metrics[3].Score = metrics[3].Value

	score := weighted(metrics, bowWeights)

	return Result{
		Test:    a.Test(),
		Score:   score,
		Metrics: metrics,
		Feedback: buildFeedback(a.Test(), score, metrics, bowRemarks,
			bowExercises, a.Params.RemarkThreshold),
	}
}

// trunkLean measures the trunk's tilt from vertical using the shoulder and
// hip midpoints in image space
func trunkLean(f lumbarcheck.Frame) float64 {

	img := f.Landmarks

	return geometry.VerticalTilt(
		geometry.Midpoint(img[lumbarcheck.LeftShoulder], img[lumbarcheck.RightShoulder]),
		geometry.Midpoint(img[lumbarcheck.LeftHip], img[lumbarcheck.RightHip]))
}

// meanHipAngle averages the left and right shoulder-hip-knee angles
func meanHipAngle(f lumbarcheck.Frame) float64 {

	pts := f.Points()

	left := geometry.Angle(pts[lumbarcheck.LeftShoulder],
		pts[lumbarcheck.LeftHip], pts[lumbarcheck.LeftKnee])

	right := geometry.Angle(pts[lumbarcheck.RightShoulder],
		pts[lumbarcheck.RightHip], pts[lumbarcheck.RightKnee])

	return (left + right) / 2
}

// meanKneeAngle averages the left and right hip-knee-ankle angles
func meanKneeAngle(f lumbarcheck.Frame) float64 {

	pts := f.Points()

	left := geometry.Angle(pts[lumbarcheck.LeftHip],
		pts[lumbarcheck.LeftKnee], pts[lumbarcheck.LeftAnkle])

	right := geometry.Angle(pts[lumbarcheck.RightHip],
		pts[lumbarcheck.RightKnee], pts[lumbarcheck.RightAnkle])

	return (left + right) / 2
}
