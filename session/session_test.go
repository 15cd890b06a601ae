package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/analyze"
)

// standingFrame builds a single upright frame at the given timestamp
func standingFrame(timestampMS float64) lumbarcheck.Frame {

	landmarks := make([]lumbarcheck.Landmark, lumbarcheck.NumLandmarks)

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

	return lumbarcheck.Frame{TimestampMS: timestampMS, Landmarks: landmarks}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()

	s, err := New(analyze.StandingHipFlexion, analyze.DefaultParams())
	require.NoError(t, err)

	return s
}

func TestSessionLifecycle(t *testing.T) {

	s := newTestSession(t)

	assert.Equal(t, StatusIdle, s.Status())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, analyze.StandingHipFlexion, s.Test())

	require.NoError(t, s.Start())
	assert.Equal(t, StatusRecording, s.Status())
	assert.False(t, s.StartedAt().IsZero())

	// starting twice is an error
	assert.ErrorIs(t, s.Start(), ErrNotStarted)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.AddFrame(standingFrame(float64(i)*33)))
	}

	assert.Equal(t, 10, s.FrameCount())

	require.NoError(t, s.Stop())
	assert.Equal(t, StatusAnalyzing, s.Status())

	result, err := s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, analyze.StandingHipFlexion, result.Test)
	assert.NotEmpty(t, result.Feedback)

	stored, ok := s.Result()
	assert.True(t, ok)
	assert.Equal(t, result.Score, stored.Score)
}

func TestSessionAddFrameOutsideRecording(t *testing.T) {

	s := newTestSession(t)

	// idle
	assert.ErrorIs(t, s.AddFrame(standingFrame(0)), ErrNotRecording)

	require.NoError(t, s.Start())
	require.NoError(t, s.AddFrame(standingFrame(0)))
	require.NoError(t, s.Stop())

	// analyzing
	assert.ErrorIs(t, s.AddFrame(standingFrame(33)), ErrNotRecording)
	assert.Equal(t, 1, s.FrameCount())
}

// TestSessionDuplicateTimestamps verifies near-duplicate frame deliveries
// are dropped rather than double-counted
func TestSessionDuplicateTimestamps(t *testing.T) {

	s := newTestSession(t)
	require.NoError(t, s.Start())

	require.NoError(t, s.AddFrame(standingFrame(0)))
	require.NoError(t, s.AddFrame(standingFrame(33)))

	// duplicates inside the 5ms window are dropped without error
	require.NoError(t, s.AddFrame(standingFrame(33)))
	require.NoError(t, s.AddFrame(standingFrame(36.9)))

	require.NoError(t, s.AddFrame(standingFrame(66)))

	assert.Equal(t, 3, s.FrameCount())
}

// TestSessionEvaluateIdempotent verifies evaluating a completed session
// twice returns the identical result
func TestSessionEvaluateIdempotent(t *testing.T) {

	s := newTestSession(t)
	require.NoError(t, s.Start())

	for i := 0; i < 10; i++ {
		require.NoError(t, s.AddFrame(standingFrame(float64(i)*33)))
	}

	require.NoError(t, s.Stop())

	first, err := s.Evaluate()
	require.NoError(t, err)

	second, err := s.Evaluate()
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Feedback, second.Feedback)
}

// TestSessionZeroFrames verifies a stopped session with no captured frames
// completes with the explicit insufficient data result
func TestSessionZeroFrames(t *testing.T) {

	s := newTestSession(t)
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())

	result, err := s.Evaluate()
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, 0.0, result.Score)
	require.NotEmpty(t, result.Feedback)
	assert.Contains(t, result.Feedback[0], "Insufficient data")
}

func TestSessionEvaluateWhileRecording(t *testing.T) {

	s := newTestSession(t)

	// idle sessions have nothing to evaluate
	_, err := s.Evaluate()
	assert.ErrorIs(t, err, ErrStillRecording)

	require.NoError(t, s.Start())
	require.NoError(t, s.AddFrame(standingFrame(0)))

	_, err = s.Evaluate()
	assert.ErrorIs(t, err, ErrStillRecording)
}

func TestSessionStopIsIdempotent(t *testing.T) {

	s := newTestSession(t)

	// stopping an idle session is an error, there was no recording
	assert.Error(t, s.Stop())

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())

	// a cancel path may stop again without consequence
	require.NoError(t, s.Stop())

	_, err := s.Evaluate()
	require.NoError(t, err)

	require.NoError(t, s.Stop())
}

func TestSessionReset(t *testing.T) {

	s := newTestSession(t)
	id := s.ID()

	require.NoError(t, s.Start())
	require.NoError(t, s.AddFrame(standingFrame(0)))
	require.NoError(t, s.Stop())

	_, err := s.Evaluate()
	require.NoError(t, err)

	s.Reset()

	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, 0, s.FrameCount())
	assert.Equal(t, id, s.ID(), "reset keeps the session identity")

	_, ok := s.Result()
	assert.False(t, ok)

	// the session records again after a reset
	require.NoError(t, s.Start())
	require.NoError(t, s.AddFrame(standingFrame(0)))
	require.NoError(t, s.Stop())

	_, err = s.Evaluate()
	require.NoError(t, err)
}

func TestSessionUnknownTest(t *testing.T) {

	_, err := New(analyze.TestType(42), analyze.DefaultParams())
	assert.Error(t, err)
}
