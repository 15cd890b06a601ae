package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movewell/go-lumbarcheck"
)

// standingPose builds a full 33 landmark set of a person standing upright
// facing the camera, in normalized image coordinates
func standingPose() []lumbarcheck.Landmark {

	landmarks := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

	// head area defaults, not used by the lumbar tests
	for i := range landmarks {
		landmarks[i] = lumbarcheck.Landmark{X: 0.5, Y: 0.1, Visibility: 1}
	}

	set := func(idx int, x, y float64) {
		landmarks[idx] = lumbarcheck.Landmark{X: x, Y: y, Visibility: 1}
	}

	set(lumbarcheck.LeftShoulder, 0.42, 0.30)
	set(lumbarcheck.RightShoulder, 0.58, 0.30)
	set(lumbarcheck.LeftHip, 0.45, 0.52)
	set(lumbarcheck.RightHip, 0.55, 0.52)
	set(lumbarcheck.LeftKnee, 0.45, 0.72)
	set(lumbarcheck.RightKnee, 0.55, 0.72)
	set(lumbarcheck.LeftAnkle, 0.45, 0.92)
	set(lumbarcheck.RightAnkle, 0.55, 0.92)

	return landmarks
}

// standingFrames builds n identical standing frames 33ms apart
func standingFrames(n int) []lumbarcheck.Frame {

	frames := make([]lumbarcheck.Frame, n)

	for i := range frames {
		frames[i] = lumbarcheck.Frame{
			TimestampMS: float64(i) * 33,
			Landmarks:   standingPose(),
		}
	}

	return frames
}

// pathologicalFrames builds frames with wildly out of range coordinates
func pathologicalFrames(n int) []lumbarcheck.Frame {

	frames := make([]lumbarcheck.Frame, n)

	for i := range frames {
		landmarks := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

		for j := range landmarks {
			landmarks[j] = lumbarcheck.Landmark{
				X:          float64(j*i) * 17.3,
				Y:          -200 + float64(i)*93,
				Z:          5000,
				Visibility: 1,
			}
		}

		frames[i] = lumbarcheck.Frame{
			TimestampMS: float64(i) * 33,
			Landmarks:   landmarks,
		}
	}

	return frames
}

// TestWeightsSumToOne is a regression test over the fixed clinical weight
// constants of every analyzer
func TestWeightsSumToOne(t *testing.T) {

	weights := map[string][]float64{
		"hip flexion":    hipFlexionWeights,
		"waiters bow":    bowWeights,
		"knee extension": kneeExtensionWeights,
		"pelvic tilt":    tiltWeights,
		"squat":          squatWeights,
	}

	for name, w := range weights {
		var sum float64

		for _, v := range w {
			sum += v
		}

		assert.InDelta(t, 1.0, sum, 1e-9, "weights for %s must sum to 1.0", name)
	}
}

func TestNewAnalyzerExhaustive(t *testing.T) {

	for _, tt := range TestTypes() {
		a, err := NewAnalyzer(tt, DefaultParams())

		require.NoError(t, err, "test type %s", tt)
		assert.Equal(t, tt, a.Test())
	}

	_, err := NewAnalyzer(TestType(99), DefaultParams())
	assert.Error(t, err)
}

func TestParseTestType(t *testing.T) {

	for name, want := range map[string]TestType{
		"hip-flexion":    StandingHipFlexion,
		"waiters-bow":    WaitersBow,
		"knee-extension": SittingKneeExtension,
		"pelvic-tilt":    PelvicTilt,
		"squat":          DeepSquat,
	} {
		got, err := ParseTestType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTestType("handstand")
	assert.Error(t, err)
}

func TestBandScore(t *testing.T) {

	// inside the ideal band
	assert.Equal(t, 100.0, bandScore(80, 70, 100, 40, 70))

	// below the band, halfway down the penalty slope
	assert.InDelta(t, 50.0, bandScore(50, 70, 100, 40, 70), 1e-9)

	// pathological raw angles clamp rather than escape the range
	assert.Equal(t, 0.0, bandScore(-500, 70, 100, 40, 70))
	assert.Equal(t, 0.0, bandScore(200, 70, 100, 40, 20))
	assert.GreaterOrEqual(t, bandScore(0, 0, 5, 5, 25), 0.0)
	assert.LessOrEqual(t, bandScore(0, 0, 5, 5, 25), 100.0)
}

// TestAnalyzersScoreBounds feeds every analyzer pathological input and
// asserts the final and sub-metric scores stay inside [0,100]
func TestAnalyzersScoreBounds(t *testing.T) {

	histories := [][]lumbarcheck.Frame{
		standingFrames(10),
		pathologicalFrames(10),
	}

	for _, tt := range TestTypes() {
		a, err := NewAnalyzer(tt, DefaultParams())
		require.NoError(t, err)

		for _, history := range histories {
			result := a.Analyze(history[len(history)-1], history)

			assert.GreaterOrEqual(t, result.Score, 0.0, "%s overall", tt)
			assert.LessOrEqual(t, result.Score, 100.0, "%s overall", tt)
			assert.NotEmpty(t, result.Feedback, "%s feedback", tt)

			for _, m := range result.Metrics {
				assert.GreaterOrEqual(t, m.Score, 0.0, "%s %s", tt, m.Name)
				assert.LessOrEqual(t, m.Score, 100.0, "%s %s", tt, m.Name)
			}
		}
	}
}

// TestAnalyzersEmptyHistory asserts the insufficient data degradation for
// every analyzer
func TestAnalyzersEmptyHistory(t *testing.T) {

	for _, tt := range TestTypes() {
		a, err := NewAnalyzer(tt, DefaultParams())
		require.NoError(t, err)

		result := a.Analyze(lumbarcheck.Frame{}, nil)

		assert.Equal(t, 0.0, result.Score, "%s", tt)
		require.NotEmpty(t, result.Feedback, "%s", tt)
		assert.Contains(t, result.Feedback[0], "Insufficient data", "%s", tt)
	}
}
