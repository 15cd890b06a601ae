package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"time"

	"github.com/movewell/go-lumbarcheck/analyze"
	"github.com/movewell/go-lumbarcheck/estimate"
	"github.com/movewell/go-lumbarcheck/report"
	"github.com/movewell/go-lumbarcheck/session"
	"github.com/movewell/go-lumbarcheck/store"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	testName := flag.String("t", "hip-flexion", "Movement test to assess [hip-flexion|waiters-bow|knee-extension|pelvic-tilt|squat]")
	inFile := flag.String("i", "recording.jsonl", "Recorded landmark JSONL file to score")
	reportFile := flag.String("o", "", "Write an HTML assessment report to this file")
	dbFile := flag.String("db", "", "Append the result to this SQLite assessment log")

	flag.Parse()

	testType, err := analyze.ParseTestType(*testName)

	if err != nil {
		log.Fatal("Error parsing test type: ", err)
	}

	replay, err := estimate.NewReplay(*inFile)

	if err != nil {
		log.Fatal("Error loading recording: ", err)
	}

	sess, err := session.New(testType, analyze.DefaultParams())

	if err != nil {
		log.Fatal("Error creating session: ", err)
	}

	if err := sess.Start(); err != nil {
		log.Fatal("Error starting session: ", err)
	}

	for {
		frame, err := replay.Next()

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			log.Fatal("Error reading recording: ", err)
		}

		if err := sess.AddFrame(frame); err != nil {
			log.Fatal("Error adding frame: ", err)
		}
	}

	if err := sess.Stop(); err != nil {
		log.Fatal("Error stopping session: ", err)
	}

	result, err := sess.Evaluate()

	if err != nil {
		log.Fatal("Error evaluating session: ", err)
	}

	log.Printf("Scored %d of %d recorded frames", sess.FrameCount(), replay.Len())

	for _, line := range result.Feedback {
		log.Print(line)
	}

	for _, m := range result.Metrics {
		log.Printf("  %-24s %6.1f  (score %.0f)", m.Name, m.Value, m.Score)
	}

	if *reportFile != "" {
		if err := report.Write(*reportFile, result, sess.Frames()); err != nil {
			log.Fatal("Error writing report: ", err)
		}
		log.Print("Report written to ", *reportFile)
	}

	if *dbFile != "" {
		db, err := store.Open(*dbFile)

		if err != nil {
			log.Fatal("Error opening assessment log: ", err)
		}

		defer db.Close()

		err = db.Save(store.Assessment{
			SessionID:   sess.ID(),
			Test:        sess.Test().String(),
			Score:       result.Score,
			FrameCount:  sess.FrameCount(),
			Metrics:     result.Metrics,
			Feedback:    result.Feedback,
			CompletedAt: time.Now(),
		})

		if err != nil {
			log.Fatal("Error saving result: ", err)
		}

		log.Print("Result appended to ", *dbFile)
	}
}
