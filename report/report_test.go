package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/analyze"
)

// standingFrames builds n identical upright frames
func standingFrames(n int) []lumbarcheck.Frame {

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

	frames := make([]lumbarcheck.Frame, n)

	for i := range frames {
		frames[i] = lumbarcheck.Frame{
			TimestampMS: float64(i) * 33,
			Landmarks:   landmarks,
		}
	}

	return frames
}

func TestWriteReport(t *testing.T) {

	frames := standingFrames(10)

	a, err := analyze.NewAnalyzer(analyze.StandingHipFlexion,
		analyze.DefaultParams())
	require.NoError(t, err)

	result := a.Analyze(frames[len(frames)-1], frames)

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, Write(path, result, frames))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(data)

	assert.True(t, strings.Contains(html, "echarts"), "missing chart runtime")
	assert.True(t, strings.Contains(html, "lumbar stability"),
		"missing sub-metric series")
	assert.True(t, strings.Contains(html, "hip angle"), "missing angle trace")
}

func TestWriteReportNoFrames(t *testing.T) {

	a, err := analyze.NewAnalyzer(analyze.DeepSquat, analyze.DefaultParams())
	require.NoError(t, err)

	result := a.Analyze(lumbarcheck.Frame{}, nil)

	// a degraded result still renders a report without panicking
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, Write(path, result, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
