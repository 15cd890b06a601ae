package lumbarcheck

import (
	"fmt"
)

// BlazePose skeleton landmark indices.  These index positions are the fixed
// output layout of the BlazePose model and must not be changed.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	// NumLandmarks is the number of keypoints in the BlazePose skeleton
	NumLandmarks = 33
)

// DefaultVisibility is the minimum landmark visibility score required for a
// landmark to be considered usable in angle and stability calculations
const DefaultVisibility = 0.5

// Landmark represents a single skeletal keypoint estimate from the pose
// model.  X and Y are normalized image coordinates in [0,1], Z is depth
// relative to the hip midpoint, and Visibility is the model's confidence
// the point is present and unoccluded, in [0,1]
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Visible returns true if the landmark visibility meets the given threshold
func (l Landmark) Visible(threshold float64) bool {
	return l.Visibility >= threshold
}

// Frame holds one video frame's pose estimation output.  Landmarks are in
// normalized image space.  World optionally carries the same keypoints in
// metric camera-relative space for scale invariant angle calculations and
// may be nil when the estimator does not provide them
type Frame struct {
	// TimestampMS is the frame capture time in milliseconds from the start
	// of the recording
	TimestampMS float64    `json:"timestamp_ms"`
	Landmarks   []Landmark `json:"landmarks"`
	World       []Landmark `json:"world,omitempty"`
}

// NewFrame validates raw model output and wraps it in a Frame.  A landmark
// slice must be empty (no person detected) or exactly NumLandmarks long,
// matching the pose model's fixed skeleton size
func NewFrame(timestampMS float64, landmarks, world []Landmark) (Frame, error) {

	if len(landmarks) != 0 && len(landmarks) != NumLandmarks {
		return Frame{}, fmt.Errorf("landmark count %d, expected 0 or %d",
			len(landmarks), NumLandmarks)
	}

	if len(world) != 0 && len(world) != NumLandmarks {
		return Frame{}, fmt.Errorf("world landmark count %d, expected 0 or %d",
			len(world), NumLandmarks)
	}

	return Frame{
		TimestampMS: timestampMS,
		Landmarks:   landmarks,
		World:       world,
	}, nil
}

// HasPose returns true if the frame contains a full landmark set
func (f Frame) HasPose() bool {
	return len(f.Landmarks) == NumLandmarks
}

// Points returns the frame's world landmarks when present, falling back to
// the image space landmarks.  Angle calculations prefer world space as it
// is invariant to the subject's distance from the camera
func (f Frame) Points() []Landmark {
	if len(f.World) == NumLandmarks {
		return f.World
	}
	return f.Landmarks
}

// AllVisible returns true if every landmark at the given indices meets the
// visibility threshold
func (f Frame) AllVisible(threshold float64, indices ...int) bool {

	if !f.HasPose() {
		return false
	}

	for _, idx := range indices {
		if !f.Landmarks[idx].Visible(threshold) {
			return false
		}
	}

	return true
}
