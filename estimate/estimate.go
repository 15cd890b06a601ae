// Package estimate defines the boundary to the external pose estimation
// model and the sources that produce landmark frames from it.
package estimate

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck"
)

// Estimator is implemented by pose model backends.  The model itself is an
// external pre-trained inference service; this library only consumes its
// 33 landmark output
type Estimator interface {
	// Detect runs pose estimation over a single video frame and returns
	// the landmark set.  A frame in which no person was found returns a
	// Frame with empty landmarks and a nil error.  timestampMS is the
	// frame's capture time relative to the start of the recording
	Detect(img *gocv.Mat, timestampMS float64) (lumbarcheck.Frame, error)

	// Close releases any resources held by the estimator
	Close() error
}

// Config holds configuration options for pose estimation
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	// Landmarks below it keep their reported visibility so analyzers can
	// apply their own gating, but a whole-pose confidence under this value
	// is treated as no detection
	MinConfidence float64

	// Timeout is the maximum time to wait for a single frame's inference.
	// A frame whose inference exceeds it is skipped, not retried
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
		Timeout:       500 * time.Millisecond,
	}
}
