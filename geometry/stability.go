package geometry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/movewell/go-lumbarcheck"
)

const (
	// NeutralStability is the steadiness score returned when the frame
	// history is too short to measure movement
	NeutralStability = 50.0

	// fullPenaltyDisplacement is the mean per-frame displacement, in
	// normalized image units, at which the steadiness score reaches 0.
	// 0.02 corresponds to a tracked point drifting 2% of the image width
	// every frame
	fullPenaltyDisplacement = 0.02
)

// MovementStability measures how still the tracked landmarks held across
// the frame history.  It averages the per-frame displacement of the
// landmarks at the given indices and maps less movement to a higher score
// on a linear scale clamped to [0,100].  Histories shorter than 2 frames
// return NeutralStability
func MovementStability(history []lumbarcheck.Frame, indices []int) float64 {

	if len(history) < 2 || len(indices) == 0 {
		return NeutralStability
	}

	var total float64
	var samples int

	for i := 1; i < len(history); i++ {
		prev := history[i-1]
		cur := history[i]

		if !prev.HasPose() || !cur.HasPose() {
			continue
		}

		for _, idx := range indices {
			total += Distance(prev.Landmarks[idx], cur.Landmarks[idx])
			samples++
		}
	}

	if samples == 0 {
		return NeutralStability
	}

	mean := total / float64(samples)

	return Clamp(100*(1-mean/fullPenaltyDisplacement), 0, 100)
}

// TrackSeries extracts the per-frame values of fn over the history,
// skipping frames with no pose.  It is used to build the angle traces the
// smoothness and range metrics operate on
func TrackSeries(history []lumbarcheck.Frame, fn func(lumbarcheck.Frame) float64) []float64 {

	series := make([]float64, 0, len(history))

	for _, f := range history {
		if !f.HasPose() {
			continue
		}
		series = append(series, fn(f))
	}

	return series
}

// Smoothness scores how smoothly a tracked value changed over time on a
// [0,100] scale.  It differences the series twice to approximate jerk and
// penalizes its spread, so an even controlled movement scores high and a
// shaky or jolting one scores low.  Series shorter than 4 samples return
// NeutralStability
func Smoothness(series []float64) float64 {

	if len(series) < 4 {
		return NeutralStability
	}

	// second difference approximates acceleration change per frame
	jerk := make([]float64, 0, len(series)-2)

	for i := 2; i < len(series); i++ {
		d2 := series[i] - 2*series[i-1] + series[i-2]
		jerk = append(jerk, d2)
	}

	spread := stat.StdDev(jerk, nil)

	// 5 units of jerk spread per frame zeroes the score.  For joint angle
	// traces the units are degrees
	return Clamp(100*(1-spread/5.0), 0, 100)
}

// Amplitude returns the peak to peak range of the series, or 0 for series
// shorter than 2 samples
func Amplitude(series []float64) float64 {

	if len(series) < 2 {
		return 0
	}

	min := series[0]
	max := series[0]

	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return max - min
}

// Mean returns the arithmetic mean of the series, or 0 for an empty series
func Mean(series []float64) float64 {

	if len(series) == 0 {
		return 0
	}

	return stat.Mean(series, nil)
}
