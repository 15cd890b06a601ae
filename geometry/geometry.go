// Package geometry provides the vector math used to derive joint angles and
// postural metrics from pose landmarks.
package geometry

import (
	"math"

	"github.com/movewell/go-lumbarcheck"
)

// Angle computes the angle in degrees at vertex subtended by the rays to a
// and b, using the atan2 of the 3D cross and dot products.  The result is
// in the range [0,180], exact at the parallel boundaries where an acos of
// the cosine suffers rounding.  When either ray has zero magnitude
// (coincident points) the angle is undefined and 0 is returned rather
// than NaN
func Angle(a, vertex, b lumbarcheck.Landmark) float64 {

	v1x := a.X - vertex.X
	v1y := a.Y - vertex.Y
	v1z := a.Z - vertex.Z

	v2x := b.X - vertex.X
	v2y := b.Y - vertex.Y
	v2z := b.Z - vertex.Z

	mag1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	mag2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)

	if mag1 == 0 || mag2 == 0 {
		return 0
	}

	dot := v1x*v2x + v1y*v2y + v1z*v2z

	cx := v1y*v2z - v1z*v2y
	cy := v1z*v2x - v1x*v2z
	cz := v1x*v2y - v1y*v2x
	cross := math.Sqrt(cx*cx + cy*cy + cz*cz)

	return math.Atan2(cross, dot) * 180 / math.Pi
}

// Distance computes the Euclidean distance between two landmarks in 3D
func Distance(a, b lumbarcheck.Landmark) float64 {

	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Midpoint returns the point halfway between two landmarks.  The returned
// visibility is the lower of the two inputs so a midpoint is only as
// trustworthy as its least visible endpoint
func Midpoint(a, b lumbarcheck.Landmark) lumbarcheck.Landmark {

	vis := a.Visibility
	if b.Visibility < vis {
		vis = b.Visibility
	}

	return lumbarcheck.Landmark{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: vis,
	}
}

// VerticalTilt computes the angle in degrees between the segment from
// bottom to top and the image vertical axis.  0 means perfectly upright,
// 90 means horizontal.  Coincident points return 0
func VerticalTilt(top, bottom lumbarcheck.Landmark) float64 {

	dx := top.X - bottom.X
	dy := top.Y - bottom.Y

	mag := math.Sqrt(dx*dx + dy*dy)

	if mag == 0 {
		return 0
	}

	// image Y axis points down, so an upright segment has dy < 0
	cos := -dy / mag

	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// HorizontalTilt computes the angle in degrees between the segment joining
// a and b and the image horizontal axis, in [0,90].  A level shoulder or
// hip line returns 0.  Coincident points return 0
func HorizontalTilt(a, b lumbarcheck.Landmark) float64 {

	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)

	if dx == 0 && dy == 0 {
		return 0
	}

	return math.Atan2(dy, dx) * 180 / math.Pi
}

// Clamp restricts val to the range [min, max]
func Clamp(val, min, max float64) float64 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}
