package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck"
)

// poseConnections defines the BlazePose skeleton points to draw lines
// between.  The numbers are paired, so (11,13) means draw a line from the
// left shoulder to the left elbow
var poseConnections = [][2]int{
	// face
	{0, 1}, {1, 2}, {2, 3}, {3, 7},
	{0, 4}, {4, 5}, {5, 6}, {6, 8},
	{9, 10},
	// arms
	{11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	// torso
	{11, 12}, {11, 23}, {12, 24}, {23, 24},
	// legs
	{23, 25}, {24, 26}, {25, 27}, {26, 28},
	{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
}

// jointColor returns the body region color for a landmark index
func jointColor(idx int) color.RGBA {

	switch {
	case idx <= 10:
		return faceColor
	case idx == 11 || idx == 12 || idx == 23 || idx == 24:
		return torsoColor
	case idx <= 22:
		return armColor
	default:
		return legColor
	}
}

// Skeleton renders the frame's pose landmarks onto the image as skeleton
// lines with circles at the joints.  Landmarks below the visibility
// threshold are skipped, along with any line touching one.  Landmark
// coordinates are normalized so the image dimensions are used to scale
// them to pixels
func Skeleton(img *gocv.Mat, frame lumbarcheck.Frame, visibility float64,
	lineThickness int) {

	if !frame.HasPose() {
		return
	}

	w := img.Cols()
	h := img.Rows()

	// draw skeleton lines
	for _, conn := range poseConnections {
		a := frame.Landmarks[conn[0]]
		b := frame.Landmarks[conn[1]]

		if !a.Visible(visibility) || !b.Visible(visibility) {
			continue
		}

		gocv.Line(img,
			image.Pt(int(a.X*float64(w)), int(a.Y*float64(h))),
			image.Pt(int(b.X*float64(w)), int(b.Y*float64(h))),
			jointColor(conn[1]), lineThickness)
	}

	// draw circles at skeleton joints
	for i, lm := range frame.Landmarks {
		if !lm.Visible(visibility) {
			continue
		}

		gocv.Circle(img,
			image.Pt(int(lm.X*float64(w)), int(lm.Y*float64(h))),
			3, jointColor(i), -1)
	}
}

// JointTrailStyle defines the parameters used for rendering a joint trail
type JointTrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	CircleColor   color.RGBA
	CircleRadius  int
}

// DefaultJointTrailStyle returns default trail style settings
func DefaultJointTrailStyle() JointTrailStyle {
	return JointTrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// JointTrail draws the path a single landmark travelled over the frame
// history, with a circle on its current position.  It gives the clinician
// a live view of how much a joint is drifting during the test
func JointTrail(img *gocv.Mat, history []lumbarcheck.Frame, index int,
	visibility float64, style JointTrailStyle) {

	w := img.Cols()
	h := img.Rows()

	points := make([]image.Point, 0, len(history))

	for _, f := range history {
		if !f.HasPose() || !f.Landmarks[index].Visible(visibility) {
			continue
		}

		lm := f.Landmarks[index]
		points = append(points, image.Pt(int(lm.X*float64(w)),
			int(lm.Y*float64(h))))
	}

	if len(points) < 2 {
		return
	}

	for i := 1; i < len(points); i++ {
		// draw line segment of trail
		gocv.Line(img, points[i-1], points[i], style.LineColor,
			style.LineThickness)

		if i == len(points)-1 {
			// draw circle on the joint's current position
			gocv.Circle(img, points[i], style.CircleRadius,
				style.CircleColor, -1)
		}
	}
}
