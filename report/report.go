// Package report generates a self-contained HTML assessment report with
// joint angle traces and sub-metric scores.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/analyze"
	"github.com/movewell/go-lumbarcheck/geometry"
)

// Write renders an HTML report for the completed assessment to path.  The
// report contains the overall and sub-metric scores, the feedback list,
// and line traces of the hip angle, knee angle and trunk lean across the
// recording
func Write(path string, result analyze.Result, frames []lumbarcheck.Frame) error {

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s Assessment", result.Test)

	page.AddCharts(
		scoreBars(result),
		angleTraces(frames),
	)

	f, err := os.Create(path)

	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}

	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("error rendering report: %w", err)
	}

	return nil
}

// scoreBars builds the sub-metric score bar chart
func scoreBars(result analyze.Result) *charts.Bar {

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s - overall %.0f/100", result.Test, result.Score),
			Subtitle: firstFeedback(result),
		}),
		charts.WithYAxisOpts(opts.YAxis{Max: 100}),
	)

	names := make([]string, 0, len(result.Metrics))
	values := make([]opts.BarData, 0, len(result.Metrics))

	for _, m := range result.Metrics {
		names = append(names, m.Name)
		values = append(values, opts.BarData{Value: m.Score})
	}

	bar.SetXAxis(names).AddSeries("score", values)

	return bar
}

// angleTraces builds the joint angle line chart across the recording
func angleTraces(frames []lumbarcheck.Frame) *charts.Line {

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Joint angle traces"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	timestamps := make([]string, 0, len(frames))
	hip := make([]opts.LineData, 0, len(frames))
	knee := make([]opts.LineData, 0, len(frames))
	trunk := make([]opts.LineData, 0, len(frames))

	for _, f := range frames {
		if !f.HasPose() {
			continue
		}

		pts := f.Points()
		img := f.Landmarks

		timestamps = append(timestamps, fmt.Sprintf("%.0f", f.TimestampMS))

		hipAngle := (geometry.Angle(pts[lumbarcheck.LeftShoulder],
			pts[lumbarcheck.LeftHip], pts[lumbarcheck.LeftKnee]) +
			geometry.Angle(pts[lumbarcheck.RightShoulder],
				pts[lumbarcheck.RightHip], pts[lumbarcheck.RightKnee])) / 2

		kneeAngle := (geometry.Angle(pts[lumbarcheck.LeftHip],
			pts[lumbarcheck.LeftKnee], pts[lumbarcheck.LeftAnkle]) +
			geometry.Angle(pts[lumbarcheck.RightHip],
				pts[lumbarcheck.RightKnee], pts[lumbarcheck.RightAnkle])) / 2

		trunkLean := geometry.VerticalTilt(
			geometry.Midpoint(img[lumbarcheck.LeftShoulder],
				img[lumbarcheck.RightShoulder]),
			geometry.Midpoint(img[lumbarcheck.LeftHip],
				img[lumbarcheck.RightHip]))

		hip = append(hip, opts.LineData{Value: hipAngle})
		knee = append(knee, opts.LineData{Value: kneeAngle})
		trunk = append(trunk, opts.LineData{Value: trunkLean})
	}

	line.SetXAxis(timestamps).
		AddSeries("hip angle", hip).
		AddSeries("knee angle", knee).
		AddSeries("trunk lean", trunk)

	return line
}

// firstFeedback returns the summary line of the result's feedback
func firstFeedback(result analyze.Result) string {

	if len(result.Feedback) == 0 {
		return ""
	}

	return result.Feedback[0]
}
