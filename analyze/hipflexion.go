package analyze

import (
	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// HipFlexion scores the standing hip flexion test.  The patient stands on
// one leg and raises the other thigh towards horizontal while keeping the
// trunk upright and the pelvis level.  The test exposes poor lumbar
// stabilization as trunk sway or pelvic drop on the stance side
type HipFlexion struct {
	// Params are the analyzer configuration parameters
	Params Params
}

// NewHipFlexion returns an instance of the standing hip flexion analyzer
func NewHipFlexion(p Params) *HipFlexion {
	return &HipFlexion{Params: p}
}

// hipFlexionWeights are the fixed clinical weights of the sub-metrics, in
// metric order: lumbar stability, pelvic stability, trunk control,
// range of motion
var hipFlexionWeights = []float64{0.35, 0.25, 0.25, 0.15}

var hipFlexionRemarks = map[string]string{
	"lumbar stability": "The trunk drifted during the leg raise. Focus on " +
		"bracing the core before lifting the leg.",
	"pelvic stability": "The pelvis dropped towards the raised leg. Keep " +
		"both hip bones level throughout the movement.",
	"trunk control": "The upper body leaned to compensate. Keep the chest " +
		"tall and centered over the stance foot.",
	"range of motion": "The thigh did not reach hip height. Work towards " +
		"lifting the knee to 90 degrees without losing posture.",
}

var hipFlexionExercises = []string{
	"Suggested exercise: supported single-leg stance holds, 3x20 seconds per side.",
	"Suggested exercise: dead bug with slow leg lowers, 3x8 per side.",
}

// Test returns the test type this analyzer scores
func (a *HipFlexion) Test() TestType {
	return StandingHipFlexion
}

// Analyze scores the recorded standing hip flexion attempt
func (a *HipFlexion) Analyze(current lumbarcheck.Frame,
	history []lumbarcheck.Frame) Result {

	frames := usableFrames(history)

	if len(frames) == 0 {
		return insufficientResult(a.Test())
	}

	if !current.AllVisible(a.Params.Visibility,
		lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder,
		lumbarcheck.LeftHip, lumbarcheck.RightHip,
		lumbarcheck.LeftKnee, lumbarcheck.RightKnee) {
		return missingResult(a.Test())
	}

	// representative frame is the instant of maximum hip flexion, i.e. the
	// smallest shoulder-hip-knee angle on either side
	peak, ok := peakFrame(frames, minHipAngle, false)

	if !ok {
		return insufficientResult(a.Test())
	}

	pts := peak.Points()
	img := peak.Landmarks

	// pelvic levelness and trunk uprightness are postural measures taken
	// in image space at the peak of the raise
	pelvicTilt := geometry.HorizontalTilt(img[lumbarcheck.LeftHip],
		img[lumbarcheck.RightHip])

	trunkTilt := geometry.VerticalTilt(
		geometry.Midpoint(img[lumbarcheck.LeftShoulder], img[lumbarcheck.RightShoulder]),
		geometry.Midpoint(img[lumbarcheck.LeftHip], img[lumbarcheck.RightHip]))

	flexAngle := minHipAngleOf(pts)

	metrics := []Metric{
		{
			Name: "lumbar stability",
			Value: geometry.MovementStability(frames, []int{
				lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder,
				lumbarcheck.LeftHip, lumbarcheck.RightHip,
			}),
		},
		{Name: "pelvic stability", Value: pelvicTilt},
		{Name: "trunk control", Value: trunkTilt},
		{Name: "range of motion", Value: flexAngle},
	}

	// stability is already a [0,100] score; the postural angles are graded
	// against their clinical ideal bands
	metrics[0].Score = metrics[0].Value
	metrics[1].Score = bandScore(pelvicTilt, 0, 5, 5, 25)
	metrics[2].Score = bandScore(trunkTilt, 0, 10, 10, 30)
	metrics[3].Score = bandScore(flexAngle, 70, 100, 40, 70)

	score := weighted(metrics, hipFlexionWeights)

	return Result{
		Test:    a.Test(),
		Score:   score,
		Metrics: metrics,
		Feedback: buildFeedback(a.Test(), score, metrics, hipFlexionRemarks,
			hipFlexionExercises, a.Params.RemarkThreshold),
	}
}

// minHipAngle measures the smaller of the two shoulder-hip-knee angles of a
// frame, identifying the flexing side
func minHipAngle(f lumbarcheck.Frame) float64 {
	return minHipAngleOf(f.Points())
}

func minHipAngleOf(pts []lumbarcheck.Landmark) float64 {

	left := geometry.Angle(pts[lumbarcheck.LeftShoulder],
		pts[lumbarcheck.LeftHip], pts[lumbarcheck.LeftKnee])

	right := geometry.Angle(pts[lumbarcheck.RightShoulder],
		pts[lumbarcheck.RightHip], pts[lumbarcheck.RightKnee])

	if left < right {
		return left
	}

	return right
}
