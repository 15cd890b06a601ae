package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck/analyze"
)

// StatusBanner draws the recording status line in the top left corner of
// the frame, used while a session is capturing
func StatusBanner(img *gocv.Mat, text string, font Font) {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// background box so the text stays readable over the video
	rect := image.Rect(0, 0,
		textSize.X+font.LeftPad+font.RightPad,
		textSize.Y+font.TopPad+font.BottomPad)

	gocv.Rectangle(img, rect, Black, -1)

	gocv.PutTextWithParams(img, text,
		image.Pt(font.LeftPad, textSize.Y+font.TopPad),
		font.Face, font.Scale, font.Color, font.Thickness,
		font.LineType, false)
}

// ScorePanel draws the completed assessment result onto the frame: the
// overall score colored by grade, followed by one line per sub-metric
func ScorePanel(img *gocv.Mat, result analyze.Result, font Font) {

	lines := make([]string, 0, len(result.Metrics)+1)
	lines = append(lines, fmt.Sprintf("%s  %.0f/100", result.Test, result.Score))

	for _, m := range result.Metrics {
		lines = append(lines, fmt.Sprintf("%s  %.0f", m.Name, m.Score))
	}

	lineHeight := 0
	maxWidth := 0
	widths := make([]int, len(lines))

	for i, line := range lines {
		size := gocv.GetTextSize(line, font.Face, font.Scale, font.Thickness)

		widths[i] = size.X

		if size.Y > lineHeight {
			lineHeight = size.Y
		}
		if size.X > maxWidth {
			maxWidth = size.X
		}
	}

	lineHeight += font.TopPad

	// panel background
	rect := image.Rect(0, 0,
		maxWidth+font.LeftPad+font.RightPad,
		lineHeight*len(lines)+font.BottomPad)

	gocv.Rectangle(img, rect, Black, -1)

	for i, line := range lines {
		clr := font.Color

		// overall score line and sub-metric lines are graded by color
		if i == 0 {
			clr = ScoreColor(result.Score)
		} else {
			clr = ScoreColor(result.Metrics[i-1].Score)
		}

		gocv.PutTextWithParams(img, line,
			image.Pt(alignX(font, widths[i], maxWidth), lineHeight*(i+1)),
			font.Face, font.Scale, clr, font.Thickness,
			font.LineType, false)
	}
}

// alignX returns the x position of a text line of the given width inside a
// panel maxWidth wide, honoring the font alignment
func alignX(font Font, width, maxWidth int) int {

	switch font.Alignment {
	case Center:
		return font.LeftPad + (maxWidth-width)/2
	case Right:
		return font.LeftPad + maxWidth - width
	default:
		return font.LeftPad
	}
}
