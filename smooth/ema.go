package smooth

import (
	"github.com/movewell/go-lumbarcheck"
)

// EMA is an exponential moving average landmark smoother.  Each incoming
// landmark position is blended with the smoothed position from the
// previous frame, damping the single-frame jitter pose estimators produce
// on near-static subjects
type EMA struct {
	// alpha is the blend weight of the incoming frame in (0,1].  1 passes
	// frames through unchanged, smaller values smooth harder
	alpha float64
	prev  []lumbarcheck.Landmark
}

// NewEMA returns a new exponential smoother with the given blend weight.
// Out of range weights are folded back to 1 (no smoothing)
func NewEMA(alpha float64) *EMA {

	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	return &EMA{alpha: alpha}
}

// Reset clears the smoothing state, used when the subject leaves the frame
// or a new recording begins
func (e *EMA) Reset() {
	e.prev = nil
}

// Apply smooths the frame's image space landmarks against the previous
// smoothed frame and returns the result.  Frames without a pose reset the
// smoother so a re-detected subject does not get dragged towards its old
// position.  Visibility scores are passed through untouched
func (e *EMA) Apply(f lumbarcheck.Frame) lumbarcheck.Frame {

	if !f.HasPose() {
		e.Reset()
		return f
	}

	if e.prev == nil {
		e.prev = append([]lumbarcheck.Landmark(nil), f.Landmarks...)
		return f
	}

	smoothed := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

	for i, lm := range f.Landmarks {
		prev := e.prev[i]

		smoothed[i] = lumbarcheck.Landmark{
			X:          e.alpha*lm.X + (1-e.alpha)*prev.X,
			Y:          e.alpha*lm.Y + (1-e.alpha)*prev.Y,
			Z:          e.alpha*lm.Z + (1-e.alpha)*prev.Z,
			Visibility: lm.Visibility,
		}
	}

	e.prev = smoothed

	return lumbarcheck.Frame{
		TimestampMS: f.TimestampMS,
		Landmarks:   smoothed,
		World:       f.World,
	}
}
