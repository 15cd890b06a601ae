package analyze

import (
	"math"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// Tilt scores the pelvic tilt test.  The patient rocks the pelvis through
// anterior and posterior tilt in a slow rhythm while the shoulders stay
// still.  The test grades whether the patient can isolate and smoothly
// control lumbopelvic movement
type Tilt struct {
	// Params are the analyzer configuration parameters
	Params Params
}

// NewTilt returns an instance of the pelvic tilt analyzer
func NewTilt(p Params) *Tilt {
	return &Tilt{Params: p}
}

// tiltWeights are the fixed clinical weights of the sub-metrics, in metric
// order: tilt range, movement smoothness, shoulder stillness, symmetry
var tiltWeights = []float64{0.30, 0.30, 0.20, 0.20}

var tiltRemarks = map[string]string{
	"tilt range": "The pelvis moved through too small or too large a " +
		"range. Aim for a comfortable rock between full anterior and " +
		"posterior tilt.",
	"movement smoothness": "The tilting was segmented rather than fluid. " +
		"Slow down and make the rock one continuous motion.",
	"shoulder stillness": "The shoulders travelled with the pelvis. " +
		"Isolate the movement below the rib cage.",
	"symmetry": "The left and right sides moved unevenly. Rock straight " +
		"forward and back without twisting.",
}

var tiltExercises = []string{
	"Suggested exercise: supine pelvic tilts with a hand under the low " +
		"back for feedback, 3x10.",
	"Suggested exercise: cat-camel moving one vertebra at a time, 3x8.",
}

// Test returns the test type this analyzer scores
func (a *Tilt) Test() TestType {
	return PelvicTilt
}

// Analyze scores the recorded pelvic tilt attempt
func (a *Tilt) Analyze(current lumbarcheck.Frame,
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

	// the hip angle trace carries the tilt oscillation, since anterior and
	// posterior tilt rotate the pelvis on the femur
	leftSeries := geometry.TrackSeries(frames, leftHipAngle)
	rightSeries := geometry.TrackSeries(frames, rightHipAngle)
	meanSeries := geometry.TrackSeries(frames, meanHipAngle)

	tiltRange := geometry.Amplitude(meanSeries)
	asymmetry := math.Abs(geometry.Amplitude(leftSeries) -
		geometry.Amplitude(rightSeries))

	metrics := []Metric{
		{Name: "tilt range", Value: tiltRange},
		{Name: "movement smoothness", Value: geometry.Smoothness(meanSeries)},
		{
			Name: "shoulder stillness",
			Value: geometry.MovementStability(frames, []int{
				lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder,
			}),
		},
		{Name: "symmetry", Value: asymmetry},
	}

	metrics[0].Score = bandScore(tiltRange, 10, 25, 10, 20)
	metrics[1].Score = metrics[1].Value
	metrics[2].Score = metrics[2].Value
	metrics[3].Score = bandScore(asymmetry, 0, 3, 3, 15)

	score := weighted(metrics, tiltWeights)

	return Result{
		Test:    a.Test(),
		Score:   score,
		Metrics: metrics,
		Feedback: buildFeedback(a.Test(), score, metrics, tiltRemarks,
			tiltExercises, a.Params.RemarkThreshold),
	}
}

// leftHipAngle measures the left shoulder-hip-knee angle
func leftHipAngle(f lumbarcheck.Frame) float64 {

	pts := f.Points()

	return geometry.Angle(pts[lumbarcheck.LeftShoulder],
		pts[lumbarcheck.LeftHip], pts[lumbarcheck.LeftKnee])
}

// rightHipAngle measures the right shoulder-hip-knee angle
func rightHipAngle(f lumbarcheck.Frame) float64 {

	pts := f.Points()

	return geometry.Angle(pts[lumbarcheck.RightShoulder],
		pts[lumbarcheck.RightHip], pts[lumbarcheck.RightKnee])
}
