package geometry

import (
	"testing"

	"github.com/movewell/go-lumbarcheck"
)

// staticFrames builds n identical full pose frames
func staticFrames(n int) []lumbarcheck.Frame {

	landmarks := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

	for i := range landmarks {
		landmarks[i] = lumbarcheck.Landmark{
			X: 0.5, Y: float64(i) / 40, Visibility: 1,
		}
	}

	frames := make([]lumbarcheck.Frame, n)

	for i := range frames {
		frames[i] = lumbarcheck.Frame{
			TimestampMS: float64(i) * 33,
			Landmarks:   landmarks,
		}
	}

	return frames
}

// driftFrames builds n frames where each landmark drifts dx per frame
func driftFrames(n int, dx float64) []lumbarcheck.Frame {

	frames := make([]lumbarcheck.Frame, n)

	for i := range frames {
		landmarks := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

		for j := range landmarks {
			landmarks[j] = lumbarcheck.Landmark{
				X: 0.5 + float64(i)*dx, Y: 0.5, Visibility: 1,
			}
		}

		frames[i] = lumbarcheck.Frame{
			TimestampMS: float64(i) * 33,
			Landmarks:   landmarks,
		}
	}

	return frames
}

func TestMovementStabilityStatic(t *testing.T) {

	frames := staticFrames(10)
	indices := []int{lumbarcheck.LeftShoulder, lumbarcheck.RightShoulder}

	got := MovementStability(frames, indices)

	if got != 100 {
		t.Errorf("static pose expected 100, got %v", got)
	}
}

func TestMovementStabilityShortHistory(t *testing.T) {

	got := MovementStability(staticFrames(1), []int{lumbarcheck.LeftHip})

	if got != NeutralStability {
		t.Errorf("expected neutral default %v, got %v", NeutralStability, got)
	}

	got = MovementStability(nil, []int{lumbarcheck.LeftHip})

	if got != NeutralStability {
		t.Errorf("expected neutral default %v for empty history, got %v",
			NeutralStability, got)
	}
}

func TestMovementStabilityDrifting(t *testing.T) {

	still := MovementStability(driftFrames(10, 0.0005),
		[]int{lumbarcheck.LeftHip})
	drifting := MovementStability(driftFrames(10, 0.01),
		[]int{lumbarcheck.LeftHip})

	if drifting >= still {
		t.Errorf("drifting score %v should be below still score %v",
			drifting, still)
	}

	// extreme drift clamps at 0 rather than going negative
	extreme := MovementStability(driftFrames(10, 0.5),
		[]int{lumbarcheck.LeftHip})

	if extreme != 0 {
		t.Errorf("extreme drift expected 0, got %v", extreme)
	}
}

func TestSmoothness(t *testing.T) {

	// constant velocity series has zero jerk
	linear := make([]float64, 20)

	for i := range linear {
		linear[i] = float64(i) * 2
	}

	if got := Smoothness(linear); got != 100 {
		t.Errorf("linear series expected 100, got %v", got)
	}

	// alternating series is maximally jerky
	jagged := make([]float64, 20)

	for i := range jagged {
		if i%2 == 0 {
			jagged[i] = 0
		} else {
			jagged[i] = 30
		}
	}

	if got := Smoothness(jagged); got != 0 {
		t.Errorf("jagged series expected 0, got %v", got)
	}

	// too short for a jerk estimate
	if got := Smoothness([]float64{1, 2, 3}); got != NeutralStability {
		t.Errorf("short series expected neutral %v, got %v",
			NeutralStability, got)
	}
}

func TestAmplitude(t *testing.T) {

	if got := Amplitude([]float64{3, 7, 5, 1, 6}); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}

	if got := Amplitude([]float64{5}); got != 0 {
		t.Errorf("single sample expected 0, got %v", got)
	}
}

func TestTrackSeries(t *testing.T) {

	frames := staticFrames(5)
	// insert a frame with no pose, which must be skipped
	frames[2] = lumbarcheck.Frame{TimestampMS: 66}

	series := TrackSeries(frames, func(f lumbarcheck.Frame) float64 {
		return f.Landmarks[lumbarcheck.Nose].X
	})

	if len(series) != 4 {
		t.Errorf("expected 4 samples, got %d", len(series))
	}
}
