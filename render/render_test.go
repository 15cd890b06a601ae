package render

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck/analyze"
)

func TestAlignX(t *testing.T) {

	font := DefaultFont()

	// a 40px line inside a 100px panel
	font.Alignment = Left
	if got := alignX(font, 40, 100); got != font.LeftPad {
		t.Errorf("left aligned expected %d, got %d", font.LeftPad, got)
	}

	font.Alignment = Center
	if got := alignX(font, 40, 100); got != font.LeftPad+30 {
		t.Errorf("center aligned expected %d, got %d", font.LeftPad+30, got)
	}

	font.Alignment = Right
	if got := alignX(font, 40, 100); got != font.LeftPad+60 {
		t.Errorf("right aligned expected %d, got %d", font.LeftPad+60, got)
	}

	// the widest line sits at LeftPad regardless of alignment
	if got := alignX(font, 100, 100); got != font.LeftPad {
		t.Errorf("full width line expected %d, got %d", font.LeftPad, got)
	}
}

func TestScoreColor(t *testing.T) {

	if ScoreColor(85) != Green {
		t.Error("expected green for a high score")
	}

	if ScoreColor(60) != Yellow {
		t.Error("expected yellow for a middling score")
	}

	if ScoreColor(20) != Red {
		t.Error("expected red for a low score")
	}
}

func TestScorePanelDraws(t *testing.T) {

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	result := analyze.Result{
		Test:  analyze.DeepSquat,
		Score: 72,
		Metrics: []analyze.Metric{
			{Name: "squat depth", Value: 85, Score: 100},
			{Name: "trunk angle", Value: 52, Score: 80},
		},
	}

	for _, alignment := range []Alignment{Left, Center, Right} {
		font := PanelFont()
		font.Alignment = alignment

		ScorePanel(&img, result, font)
	}

	StatusBanner(&img, "5s remaining", DefaultFont())
}
