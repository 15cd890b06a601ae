package analyze

import (
	"math"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// Squat scores the deep squat test.  The patient squats as deep as
// comfortable with heels down.  Depth, a controlled trunk angle, knees
// tracking over the feet and a level pelvis together indicate good
// lumbopelvic control under load
type Squat struct {
	// Params are the analyzer configuration parameters
	Params Params
}

// NewSquat returns an instance of the deep squat analyzer
func NewSquat(p Params) *Squat {
	return &Squat{Params: p}
}

// squatWeights are the fixed clinical weights of the sub-metrics, in
// metric order: squat depth, trunk angle, knee tracking, pelvic levelness
var squatWeights = []float64{0.30, 0.25, 0.25, 0.20}

var squatRemarks = map[string]string{
	"squat depth": "The squat stopped above parallel. Work on ankle and " +
		"hip mobility to reach more depth.",
	"trunk angle": "The trunk collapsed forward at the bottom. Keep the " +
		"chest up and drive the hips down between the heels.",
	"knee tracking": "The knees drifted off the line of the feet. Press " +
		"the knees out over the toes through the whole descent.",
	"pelvic levelness": "The pelvis tipped sideways at depth. Keep weight " +
		"even on both feet.",
}

var squatExercises = []string{
	"Suggested exercise: box squats to a depth that keeps the trunk " +
		"controlled, 3x8.",
	"Suggested exercise: goblet squat holds at the bottom position, " +
		"3x20 seconds.",
}

// Test returns the test type this analyzer scores
func (a *Squat) Test() TestType {
	return DeepSquat
}

// Analyze scores the recorded deep squat attempt
func (a *Squat) Analyze(current lumbarcheck.Frame,
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

	// representative frame is the bottom of the squat
	peak, ok := peakFrame(frames, meanKneeAngle, false)

	if !ok {
		return insufficientResult(a.Test())
	}

	depth := meanKneeAngle(peak)
	lean := trunkLean(peak)
	tracking := kneeTracking(peak)
	pelvicTilt := geometry.HorizontalTilt(peak.Landmarks[lumbarcheck.LeftHip],
		peak.Landmarks[lumbarcheck.RightHip])

	metrics := []Metric{
		{Name: "squat depth", Value: depth},
		{Name: "trunk angle", Value: lean},
		{Name: "knee tracking", Value: tracking},
		{Name: "pelvic levelness", Value: pelvicTilt},
	}

	metrics[0].Score = bandScore(depth, 60, 90, 40, 70)
	metrics[1].Score = bandScore(lean, 20, 45, 20, 35)
	metrics[2].Score = bandScore(tracking, 0, 0.3, 0.3, 0.7)
	metrics[3].Score = bandScore(pelvicTilt, 0, 5, 5, 20)

	score := weighted(metrics, squatWeights)

	return Result{
		Test:    a.Test(),
		Score:   score,
		Metrics: metrics,
		Feedback: buildFeedback(a.Test(), score, metrics, squatRemarks,
			squatExercises, a.Params.RemarkThreshold),
	}
}

// kneeTracking measures the mean horizontal offset of each knee from its
// ankle, normalized by hip width so the measure is independent of the
// subject's distance from the camera.  0 means the knees are stacked
// directly over the feet
func kneeTracking(f lumbarcheck.Frame) float64 {

	img := f.Landmarks

	hipWidth := math.Abs(img[lumbarcheck.LeftHip].X -
		img[lumbarcheck.RightHip].X)

	if hipWidth == 0 {
		return 0
	}

	left := math.Abs(img[lumbarcheck.LeftKnee].X -
		img[lumbarcheck.LeftAnkle].X)

	right := math.Abs(img[lumbarcheck.RightKnee].X -
		img[lumbarcheck.RightAnkle].X)

	return ((left + right) / 2) / hipWidth
}
