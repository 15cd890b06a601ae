// Package preprocess prepares captured video frames for the pose model and
// maps its letterboxed output coordinates back to source image space.
package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck"
)

// Resizer handles scaling captured frames down to the pose model's input
// dimensions with letterbox padding, and the inverse mapping of the
// model's normalized landmark coordinates back into the source frame
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// letterbox parameters used in scaling
	xPad  int
	yPad  int
	scale float64
	// resize dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a resizer used for scaling captured frames to the
// pose model's input dimensions
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		tempMat:    gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the scaling factors for source and destination Mats
func (r *Resizer) preCalc() {

	r.resizeW = r.destWidth
	r.resizeH = r.destHeight

	scaleW := float64(r.destWidth) / float64(r.srcWidth)
	scaleH := float64(r.destHeight) / float64(r.srcHeight)
	r.scale = scaleH

	if scaleW < scaleH {
		r.scale = scaleW
		r.resizeH = int(float64(r.srcHeight) * r.scale)
	} else {
		r.resizeW = int(float64(r.srcWidth) * r.scale)
	}

	r.yPad = (r.destHeight - r.resizeH) / 2 // padding height / 2
	r.xPad = (r.destWidth - r.resizeW) / 2  // padding width / 2
}

// LetterBoxResize resizes the input frame to the model input dimensions
// whilst maintaining image aspect.  Color is that used for letter box
// padding
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, color)
}

// UnmapFrame converts a frame's normalized landmark coordinates from the
// letterboxed model input space back into normalized source frame space,
// removing the padding and scale the letterbox introduced.  World
// landmarks are metric and unaffected by letterboxing, so they pass
// through unchanged
func (r *Resizer) UnmapFrame(f lumbarcheck.Frame) lumbarcheck.Frame {

	if !f.HasPose() {
		return f
	}

	unmapped := make([]lumbarcheck.Landmark, len(f.Landmarks))

	for i, lm := range f.Landmarks {
		unmapped[i] = r.unmapLandmark(lm)
	}

	return lumbarcheck.Frame{
		TimestampMS: f.TimestampMS,
		Landmarks:   unmapped,
		World:       f.World,
	}
}

// unmapLandmark removes the letterbox padding from one normalized landmark
func (r *Resizer) unmapLandmark(lm lumbarcheck.Landmark) lumbarcheck.Landmark {

	// into letterboxed pixel space
	px := lm.X * float64(r.destWidth)
	py := lm.Y * float64(r.destHeight)

	// remove padding and scaling, then renormalize to source dimensions
	lm.X = (px - float64(r.xPad)) / r.scale / float64(r.srcWidth)
	lm.Y = (py - float64(r.yPad)) / r.scale / float64(r.srcHeight)

	return lm
}

// ScaleFactor returns the scale factor used in letterbox resize
func (r *Resizer) ScaleFactor() float64 {
	return r.scale
}

// XPad returns the x padding used in letterbox resize
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the y padding used in letterbox resize
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
