package estimate

import (
	"io"

	"github.com/movewell/go-lumbarcheck"
)

// Replay feeds previously recorded landmark frames from a JSONL file,
// allowing a session to be scored offline without video or a running
// pose model
type Replay struct {
	frames []lumbarcheck.Frame
	pos    int
}

// NewReplay loads the recorded frame stream from the given JSONL file
func NewReplay(file string) (*Replay, error) {

	frames, err := lumbarcheck.LoadFrames(file)

	if err != nil {
		return nil, err
	}

	return &Replay{frames: frames}, nil
}

// Next returns the next recorded frame, or io.EOF once the recording is
// exhausted
func (r *Replay) Next() (lumbarcheck.Frame, error) {

	if r.pos >= len(r.frames) {
		return lumbarcheck.Frame{}, io.EOF
	}

	f := r.frames[r.pos]
	r.pos++

	return f, nil
}

// Len returns the total number of recorded frames
func (r *Replay) Len() int {
	return len(r.frames)
}
