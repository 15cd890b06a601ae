package smooth

import (
	"gonum.org/v1/gonum/mat"

	"github.com/movewell/go-lumbarcheck"
)

// Kalman smooths landmark positions with an independent constant-velocity
// Kalman filter per landmark axis.  Compared to the EMA smoother it tracks
// fast deliberate movement with less lag while still suppressing the
// estimator's frame to frame jitter
type Kalman struct {
	// processVar is the variance of the constant-velocity motion model.
	// Larger values trust the measurements more during acceleration
	processVar float64
	// measureVar is the variance of the estimator's position measurements
	measureVar float64
	// motionMat is the 2x2 constant velocity transition matrix
	motionMat *mat.Dense
	// filters holds one axis filter per landmark coordinate, x and y
	// interleaved, lazily initialized on the first full pose
	filters []*axisFilter
}

// NewKalman initializes and returns a new landmark Kalman smoother.
// Typical values are processVar 1e-4 and measureVar 1e-3 for normalized
// image coordinates
func NewKalman(processVar, measureVar float64) *Kalman {

	// constant velocity transition over one frame interval
	motionMat := mat.NewDense(2, 2, []float64{
		1, 1,
		0, 1,
	})

	return &Kalman{
		processVar: processVar,
		measureVar: measureVar,
		motionMat:  motionMat,
	}
}

// Reset clears all filter state
func (k *Kalman) Reset() {
	k.filters = nil
}

// Apply filters the frame's image space landmarks and returns the smoothed
// frame.  Frames without a pose reset the filters.  Z and visibility are
// passed through untouched since depth is already heavily filtered by the
// pose model
func (k *Kalman) Apply(f lumbarcheck.Frame) lumbarcheck.Frame {

	if !f.HasPose() {
		k.Reset()
		return f
	}

	if k.filters == nil {
		k.filters = make([]*axisFilter, lumbarcheck.NumLandmarks*2)

		for i, lm := range f.Landmarks {
			k.filters[i*2] = newAxisFilter(lm.X, k.processVar, k.measureVar)
			k.filters[i*2+1] = newAxisFilter(lm.Y, k.processVar, k.measureVar)
		}

		return f
	}

	smoothed := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

	for i, lm := range f.Landmarks {
		smoothed[i] = lumbarcheck.Landmark{
			X:          k.filters[i*2].step(k.motionMat, lm.X),
			Y:          k.filters[i*2+1].step(k.motionMat, lm.Y),
			Z:          lm.Z,
			Visibility: lm.Visibility,
		}
	}

	return lumbarcheck.Frame{
		TimestampMS: f.TimestampMS,
		Landmarks:   smoothed,
		World:       f.World,
	}
}

// axisFilter is a 1D constant-velocity Kalman filter with state
// [position, velocity]
type axisFilter struct {
	mean       *mat.VecDense
	cov        *mat.Dense
	processVar float64
	measureVar float64
}

// newAxisFilter initializes the state mean from the first measurement with
// zero velocity and a covariance reflecting the unknown initial velocity
func newAxisFilter(z, processVar, measureVar float64) *axisFilter {

	cov := mat.NewDense(2, 2, []float64{
		measureVar, 0,
		0, 1,
	})

	return &axisFilter{
		mean:       mat.NewVecDense(2, []float64{z, 0}),
		cov:        cov,
		processVar: processVar,
		measureVar: measureVar,
	}
}

// step runs one predict and update cycle against the measurement z and
// returns the filtered position
func (a *axisFilter) step(motionMat *mat.Dense, z float64) float64 {

	// predict: mean = F * mean, cov = F * cov * F^T + Q
	var predMean mat.VecDense
	predMean.MulVec(motionMat, a.mean)

	var fc, predCov mat.Dense
	fc.Mul(motionMat, a.cov)
	predCov.Mul(&fc, motionMat.T())
	predCov.Set(0, 0, predCov.At(0, 0)+a.processVar)
	predCov.Set(1, 1, predCov.At(1, 1)+a.processVar)

	// update with the scalar position measurement
	innovation := z - predMean.AtVec(0)
	s := predCov.At(0, 0) + a.measureVar

	k0 := predCov.At(0, 0) / s
	k1 := predCov.At(1, 0) / s

	a.mean.SetVec(0, predMean.AtVec(0)+k0*innovation)
	a.mean.SetVec(1, predMean.AtVec(1)+k1*innovation)

	// cov = (I - K * H) * cov
	a.cov.Set(0, 0, (1-k0)*predCov.At(0, 0))
	a.cov.Set(0, 1, (1-k0)*predCov.At(0, 1))
	a.cov.Set(1, 0, predCov.At(1, 0)-k1*predCov.At(0, 0))
	a.cov.Set(1, 1, predCov.At(1, 1)-k1*predCov.At(0, 1))

	return a.mean.AtVec(0)
}
