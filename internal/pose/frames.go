package pose

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Frame is one recorded video frame's estimator output. An empty Landmarks
// map means no body was detected in that frame.
type Frame struct {
	Index     int                 `json:"-"`
	Landmarks map[string]Landmark `json:"landmarks,omitempty"`
	// Mediapipe is the key older trace dumps use for the same data.
	Mediapipe map[string]Landmark `json:"mediapipe,omitempty"`
}

// Named returns the frame's landmarks regardless of which key carried them.
func (f Frame) Named() map[string]Landmark {
	if len(f.Landmarks) > 0 {
		return f.Landmarks
	}
	return f.Mediapipe
}

// Detected reports whether the estimator produced any landmarks.
func (f Frame) Detected() bool {
	return len(f.Named()) > 0
}

type frameFile struct {
	FPS    float64       `json:"fps,omitempty"`
	Frames map[int]Frame `json:"frames"`
}

// Recording is a decoded frame file.
type Recording struct {
	FPS    float64
	Frames []Frame
}

// ReadFrames decodes a frame file and returns its frames in index order.
// Rep counting depends on strict temporal order, so the map keys are sorted.
func ReadFrames(r io.Reader) (*Recording, error) {
	var ff frameFile
	if err := json.NewDecoder(r).Decode(&ff); err != nil {
		return nil, fmt.Errorf("decoding frames: %w", err)
	}

	rec := &Recording{FPS: ff.FPS, Frames: make([]Frame, 0, len(ff.Frames))}
	for idx, f := range ff.Frames {
		f.Index = idx
		rec.Frames = append(rec.Frames, f)
	}
	sort.Slice(rec.Frames, func(i, j int) bool {
		return rec.Frames[i].Index < rec.Frames[j].Index
	})
	return rec, nil
}
