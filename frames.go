package lumbarcheck

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadFrames reads a recorded landmark stream from the given JSONL file.
// It should contain one JSON encoded Frame per line.  Frames failing
// validation are rejected with an error rather than silently dropped so a
// corrupt recording is detected at load time
func LoadFrames(file string) ([]Frame, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	// create a scanner to read the file
	scanner := bufio.NewScanner(f)
	// landmark lines can exceed the default scanner buffer
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frames []Frame
	lineNum := 0

	// read and decode each line
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		var frame Frame

		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			return nil, fmt.Errorf("error decoding frame on line %d: %w",
				lineNum, err)
		}

		// revalidate through NewFrame so recorded files obey the same
		// landmark count invariant as live model output
		frame, err = NewFrame(frame.TimestampMS, frame.Landmarks, frame.World)

		if err != nil {
			return nil, fmt.Errorf("invalid frame on line %d: %w", lineNum, err)
		}

		frames = append(frames, frame)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return frames, nil
}

// SaveFrames writes the frame sequence to the given file as JSONL, one
// Frame per line, for later replay
func SaveFrames(file string, frames []Frame) error {

	f, err := os.Create(file)

	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	defer f.Close()

	w := bufio.NewWriter(f)

	for i, frame := range frames {
		buf, err := json.Marshal(frame)

		if err != nil {
			return fmt.Errorf("error encoding frame %d: %w", i, err)
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("error writing frame %d: %w", i, err)
		}

		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("error writing frame %d: %w", i, err)
		}
	}

	return w.Flush()
}
