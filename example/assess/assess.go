package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck"
	"github.com/movewell/go-lumbarcheck/analyze"
	"github.com/movewell/go-lumbarcheck/estimate"
	"github.com/movewell/go-lumbarcheck/preprocess"
	"github.com/movewell/go-lumbarcheck/render"
	"github.com/movewell/go-lumbarcheck/report"
	"github.com/movewell/go-lumbarcheck/session"
	"github.com/movewell/go-lumbarcheck/smooth"
	"github.com/movewell/go-lumbarcheck/store"
)

// modelInputSize is the BlazePose sidecar's square input dimension
const modelInputSize = 256

// trailSize is the number of recent frames shown in the joint trail
const trailSize = 60

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	testName := flag.String("t", "hip-flexion", "Movement test to assess [hip-flexion|waiters-bow|knee-extension|pelvic-tilt|squat]")
	source := flag.String("i", "0", "Video source, a webcam device number or video file path")
	sidecar := flag.String("s", "http://127.0.0.1:9021", "BlazePose sidecar base URL")
	duration := flag.Int("d", 15, "Recording duration in seconds")
	reportFile := flag.String("o", "", "Write an HTML assessment report to this file")
	recordFile := flag.String("j", "", "Record the landmark stream to this JSONL file")
	dbFile := flag.String("db", "", "Append the result to this SQLite assessment log")
	fontFile := flag.String("f", "", "TTF font for the summary snapshot text")
	snapFile := flag.String("snap", "", "Write the final annotated frame to this JPG file")
	show := flag.Bool("show", true, "Display the live assessment window")

	flag.Parse()

	testType, err := analyze.ParseTestType(*testName)

	if err != nil {
		log.Fatal("Error parsing test type: ", err)
	}

	// open the webcam or video file
	cap, err := gocv.OpenVideoCapture(*source)

	if err != nil {
		log.Fatal("Error opening video source: ", err)
	}

	defer cap.Close()

	srcWidth := int(cap.Get(gocv.VideoCaptureFrameWidth))
	srcHeight := int(cap.Get(gocv.VideoCaptureFrameHeight))

	resizer := preprocess.NewResizer(srcWidth, srcHeight,
		modelInputSize, modelInputSize)
	defer resizer.Close()

	estimator := estimate.NewBlazePose(*sidecar, estimate.DefaultConfig())
	defer estimator.Close()

	sess, err := session.New(testType, analyze.DefaultParams())

	if err != nil {
		log.Fatal("Error creating session: ", err)
	}

	if err := sess.Start(); err != nil {
		log.Fatal("Error starting session: ", err)
	}

	smoother := smooth.NewKalman(1e-4, 1e-3)
	history := smooth.NewHistory(trailSize)

	var window *gocv.Window

	if *show {
		window = gocv.NewWindow("lumbarcheck - " + testType.String())
		defer window.Close()
	}

	img := gocv.NewMat()
	defer img.Close()

	boxed := gocv.NewMat()
	defer boxed.Close()

	last := gocv.NewMat()
	defer last.Close()

	banner := render.DefaultFont()
	start := time.Now()
	deadline := start.Add(time.Duration(*duration) * time.Second)

	log.Printf("Recording %s for %d seconds...", testType, *duration)

	for time.Now().Before(deadline) {

		if ok := cap.Read(&img); !ok || img.Empty() {
			// end of a video file source
			break
		}

		timestampMS := float64(time.Since(start).Milliseconds())

		// letterbox the frame down to the model input size
		resizer.LetterBoxResize(img, &boxed, render.Black)

		frame, err := estimator.Detect(&boxed, timestampMS)

		if err != nil {
			if errors.Is(err, estimate.ErrBusy) {
				// previous frame still inferencing, drop this one
				continue
			}

			// a failed frame is dropped and the session proceeds with
			// fewer data points
			log.Printf("Frame at %.0fms skipped: %v", timestampMS, err)
			continue
		}

		// map landmarks out of letterbox space and damp estimator jitter
		frame = smoother.Apply(resizer.UnmapFrame(frame))

		if err := sess.AddFrame(frame); err != nil {
			log.Fatal("Error adding frame: ", err)
		}

		history.Add(frame)

		if *show {
			render.Skeleton(&img, frame, lumbarcheck.DefaultVisibility, 2)
			render.JointTrail(&img, history.Frames(), lumbarcheck.LeftHip,
				lumbarcheck.DefaultVisibility, render.DefaultJointTrailStyle())
			render.StatusBanner(&img,
				time.Until(deadline).Round(time.Second).String()+" remaining",
				banner)

			window.IMShow(img)

			// ESC stops the recording early
			if window.WaitKey(1) == 27 {
				break
			}
		}

		img.CopyTo(&last)
	}

	if err := sess.Stop(); err != nil {
		log.Fatal("Error stopping session: ", err)
	}

	result, err := sess.Evaluate()

	if err != nil {
		log.Fatal("Error evaluating session: ", err)
	}

	log.Printf("Captured %d frames", sess.FrameCount())

	for _, line := range result.Feedback {
		log.Print(line)
	}

	for _, m := range result.Metrics {
		log.Printf("  %-24s %6.1f  (score %.0f)", m.Name, m.Value, m.Score)
	}

	if *recordFile != "" {
		if err := lumbarcheck.SaveFrames(*recordFile, sess.Frames()); err != nil {
			log.Fatal("Error recording frames: ", err)
		}
		log.Print("Landmark stream recorded to ", *recordFile)
	}

	if *reportFile != "" {
		if err := writeReport(*reportFile, result, sess.Frames()); err != nil {
			log.Fatal("Error writing report: ", err)
		}
		log.Print("Report written to ", *reportFile)
	}

	if *dbFile != "" {
		if err := saveResult(*dbFile, sess, result); err != nil {
			log.Fatal("Error saving result: ", err)
		}
		log.Print("Result appended to ", *dbFile)
	}

	if *snapFile != "" && !last.Empty() {
		if err := writeSnapshot(*snapFile, &last, result, *fontFile); err != nil {
			log.Fatal("Error writing snapshot: ", err)
		}
		log.Print("Snapshot written to ", *snapFile)
	}
}

// writeReport renders the HTML assessment report
func writeReport(path string, result analyze.Result,
	frames []lumbarcheck.Frame) error {
	return report.Write(path, result, frames)
}

// saveResult appends the completed assessment to the SQLite log
func saveResult(dbFile string, sess *session.Session, result analyze.Result) error {

	db, err := store.Open(dbFile)

	if err != nil {
		return err
	}

	defer db.Close()

	return db.Save(store.Assessment{
		SessionID:   sess.ID(),
		Test:        sess.Test().String(),
		Score:       result.Score,
		FrameCount:  sess.FrameCount(),
		Metrics:     result.Metrics,
		Feedback:    result.Feedback,
		CompletedAt: time.Now(),
	})
}

// writeSnapshot draws the score panel onto the final frame and saves it.
// When a TTF font is supplied the summary line is drawn with it, otherwise
// the built-in Hershey font is used
func writeSnapshot(path string, img *gocv.Mat, result analyze.Result,
	fontFile string) error {

	render.ScorePanel(img, result, render.PanelFont())

	if fontFile != "" && len(result.Feedback) > 0 {
		label, err := render.NewTTFLabel(fontFile, 22)

		if err != nil {
			return err
		}

		defer label.Close()

		if err := label.Draw(img, result.Feedback[0],
			10, img.Rows()-20, render.White); err != nil {
			return err
		}
	}

	if ok := gocv.IMWrite(path, *img); !ok {
		return errors.New("error writing snapshot file")
	}

	return nil
}
