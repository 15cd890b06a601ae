// Package session manages the lifecycle of one recording-and-evaluation
// cycle for a single movement test.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/analyze"
)

// Status represents the lifecycle state of a session
type Status int

const (
	StatusIdle Status = iota
	StatusRecording
	StatusAnalyzing
	StatusCompleted
	StatusFailed
)

// String returns the display name of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusAnalyzing:
		return "analyzing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrNotRecording is returned when a frame is added outside the
	// recording state
	ErrNotRecording = errors.New("session is not recording")
	// ErrNotStarted is returned when Start is called outside the idle state
	ErrNotStarted = errors.New("session is not idle")
	// ErrStillRecording is returned when Evaluate is called before the
	// recording has been stopped
	ErrStillRecording = errors.New("recording has not been stopped")
	// ErrFailed is returned when the session analyzer previously panicked
	ErrFailed = errors.New("session failed during analysis")
)

// minFrameGapMS is the minimum timestamp gap between consecutive frames.
// Browser and capture backends occasionally deliver the same frame twice;
// closer duplicates are dropped so they cannot double-count in stability
// metrics
const minFrameGapMS = 5.0

// Session is one assessment of a single movement test.  It accumulates
// frames while recording, runs the test's analyzer once at session end, and
// holds the immutable result.  A Session is not safe for concurrent use;
// the capture loop owns it
type Session struct {
	id       string
	test     analyze.TestType
	analyzer analyze.Analyzer
	status   Status
	frames   []lumbarcheck.Frame
	result   *analyze.Result
	started  time.Time
}

// New returns an idle session for the given test type
func New(test analyze.TestType, p analyze.Params) (*Session, error) {

	analyzer, err := analyze.NewAnalyzer(test, p)

	if err != nil {
		return nil, err
	}

	return &Session{
		id:       uuid.NewString(),
		test:     test,
		analyzer: analyzer,
		status:   StatusIdle,
	}, nil
}

// ID returns the session's unique identifier
func (s *Session) ID() string {
	return s.id
}

// Test returns the movement test this session assesses
func (s *Session) Test() analyze.TestType {
	return s.test
}

// Status returns the current lifecycle state
func (s *Session) Status() Status {
	return s.status
}

// StartedAt returns the time recording began, or the zero time if the
// session has not been started
func (s *Session) StartedAt() time.Time {
	return s.started
}

// FrameCount returns the number of frames captured so far
func (s *Session) FrameCount() int {
	return len(s.frames)
}

// Start transitions the session from idle to recording
func (s *Session) Start() error {

	if s.status != StatusIdle {
		return fmt.Errorf("%w: status is %s", ErrNotStarted, s.status)
	}

	s.status = StatusRecording
	s.started = time.Now()

	return nil
}

// AddFrame appends a captured frame to the recording.  It is only valid
// while the session is recording.  A frame whose timestamp is within
// minFrameGapMS of the previous frame is treated as a duplicate delivery
// and silently dropped
func (s *Session) AddFrame(f lumbarcheck.Frame) error {

	if s.status != StatusRecording {
		return fmt.Errorf("%w: status is %s", ErrNotRecording, s.status)
	}

	if n := len(s.frames); n > 0 {
		if math.Abs(f.TimestampMS-s.frames[n-1].TimestampMS) < minFrameGapMS {
			return nil
		}
	}

	s.frames = append(s.frames, f)

	return nil
}

// Stop ends the recording and moves the session to analyzing.  Stopping an
// already stopped session is a no-op so a cancel path can call it
// unconditionally
func (s *Session) Stop() error {

	switch s.status {
	case StatusRecording:
		s.status = StatusAnalyzing
		return nil
	case StatusAnalyzing, StatusCompleted:
		return nil
	default:
		return fmt.Errorf("%w: status is %s", ErrNotRecording, s.status)
	}
}

// Evaluate runs the test's analyzer over the captured frames and moves the
// session to completed.  Calling Evaluate again on a completed session
// returns the stored result unchanged.  A session with no usable frames
// completes with the analyzer's explicit insufficient data result rather
// than erroring.  An analyzer panic marks the session failed
func (s *Session) Evaluate() (analyze.Result, error) {

	switch s.status {
	case StatusCompleted:
		return *s.result, nil
	case StatusFailed:
		return analyze.Result{}, ErrFailed
	case StatusRecording:
		return analyze.Result{}, ErrStillRecording
	case StatusIdle:
		return analyze.Result{}, fmt.Errorf("%w: status is %s",
			ErrStillRecording, s.status)
	}

	result, err := s.runAnalyzer()

	if err != nil {
		s.status = StatusFailed
		return analyze.Result{}, err
	}

	s.result = &result
	s.status = StatusCompleted

	return result, nil
}

// runAnalyzer invokes the analyzer, converting a panic into an error so
// nothing propagates to the caller unhandled
func (s *Session) runAnalyzer() (result analyze.Result, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFailed, r)
		}
	}()

	var current lumbarcheck.Frame

	if n := len(s.frames); n > 0 {
		current = s.frames[n-1]
	}

	return s.analyzer.Analyze(current, s.frames), nil
}

// Result returns the stored result of a completed session
func (s *Session) Result() (analyze.Result, bool) {

	if s.status != StatusCompleted || s.result == nil {
		return analyze.Result{}, false
	}

	return *s.result, true
}

// Frames returns the captured frame history.  The returned slice is shared
// and must be treated as read-only
func (s *Session) Frames() []lumbarcheck.Frame {
	return s.frames
}

// Reset clears the frame history and result and returns the session to
// idle, ready for a new recording.  The session keeps its ID and test type
func (s *Session) Reset() {
	s.frames = nil
	s.result = nil
	s.status = StatusIdle
	s.started = time.Time{}
}
