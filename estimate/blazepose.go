package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/movewell/go-lumbarcheck"
)

// ErrBusy is returned when Detect is called while a previous frame's
// inference is still in flight.  The caller drops the frame and continues;
// overlapping calls into the stateful model are never allowed
var ErrBusy = errors.New("inference already in flight")

// BlazePose is an Estimator backed by a BlazePose sidecar process.  Each
// frame is JPEG encoded and posted to the sidecar's detect endpoint, which
// responds with the 33 landmark JSON payload
type BlazePose struct {
	// Cfg are the estimator configuration parameters
	Cfg      Config
	endpoint string
	client   *http.Client
	// inflight enforces a single outstanding inference call
	inflight chan struct{}
}

// poseResponse is the sidecar's wire format
type poseResponse struct {
	Confidence float64               `json:"confidence"`
	Landmarks  []lumbarcheck.Landmark `json:"landmarks"`
	World      []lumbarcheck.Landmark `json:"world_landmarks,omitempty"`
}

// NewBlazePose returns an estimator talking to the BlazePose sidecar at
// the given base URL, eg. http://127.0.0.1:9021
func NewBlazePose(baseURL string, cfg Config) *BlazePose {

	inflight := make(chan struct{}, 1)
	inflight <- struct{}{}

	return &BlazePose{
		Cfg:      cfg,
		endpoint: baseURL + "/v1/detect",
		client:   &http.Client{},
		inflight: inflight,
	}
}

// Detect runs pose estimation on a single frame via the sidecar.  It
// returns ErrBusy if a previous call has not completed, and a no-pose
// frame when the sidecar finds no person or reports confidence below the
// configured minimum
func (b *BlazePose) Detect(img *gocv.Mat, timestampMS float64) (lumbarcheck.Frame, error) {

	select {
	case <-b.inflight:
	default:
		return lumbarcheck.Frame{}, ErrBusy
	}
	defer func() { b.inflight <- struct{}{} }()

	buf, err := gocv.IMEncode(".jpg", *img)

	if err != nil {
		return lumbarcheck.Frame{}, fmt.Errorf("error encoding frame: %w", err)
	}

	defer buf.Close()

	ctx, cancel := context.WithTimeout(context.Background(), b.Cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint,
		bytes.NewReader(buf.GetBytes()))

	if err != nil {
		return lumbarcheck.Frame{}, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := b.client.Do(req)

	if err != nil {
		return lumbarcheck.Frame{}, fmt.Errorf("inference request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return lumbarcheck.Frame{}, fmt.Errorf("sidecar returned %s: %s",
			resp.Status, body)
	}

	var pose poseResponse

	if err := json.NewDecoder(resp.Body).Decode(&pose); err != nil {
		return lumbarcheck.Frame{}, fmt.Errorf("error decoding response: %w", err)
	}

	// low whole-pose confidence is treated the same as no detection
	if pose.Confidence < b.Cfg.MinConfidence || len(pose.Landmarks) == 0 {
		return lumbarcheck.Frame{TimestampMS: timestampMS}, nil
	}

	return lumbarcheck.NewFrame(timestampMS, pose.Landmarks, pose.World)
}

// Close releases the estimator.  The sidecar process is owned by the
// caller, so there is nothing to tear down beyond idle connections
func (b *BlazePose) Close() error {
	b.client.CloseIdleConnections()
	return nil
}
