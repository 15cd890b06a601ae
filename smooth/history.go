// Package smooth provides frame-history buffering and landmark jitter
// suppression applied between the pose estimator and the analyzers.
package smooth

import (
	"github.com/movewell/go-lumbarcheck"
)

// History is a bounded buffer of the most recent captured frames, used for
// live rolling metrics such as an on-screen steadiness readout while the
// full recording accumulates in the session
type History struct {
	// size is the maximum number of most recent frames to keep
	size   int
	frames []lumbarcheck.Frame
}

// NewHistory returns a new frame history.  Size is the maximum number of
// most recent frames to maintain
func NewHistory(size int) *History {
	return &History{
		size: size,
	}
}

// Reset clears all history
func (h *History) Reset() {
	h.frames = nil
}

// Add appends a frame to the history, dropping the oldest frame once the
// size limit is exceeded
func (h *History) Add(f lumbarcheck.Frame) {

	h.frames = append(h.frames, f)

	// check if history is exceeded and drop oldest frame
	if len(h.frames) > h.size {
		h.frames = h.frames[1:]
	}
}

// Frames returns the buffered frames, oldest first.  The returned slice is
// shared and must be treated as read-only
func (h *History) Frames() []lumbarcheck.Frame {
	return h.frames
}

// Len returns the number of buffered frames
func (h *History) Len() int {
	return len(h.frames)
}
