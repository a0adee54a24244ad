package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/younwookim/parallelrun/internal/application/system"
)

var (
	// ErrNoFrames is returned when saving or loading an empty recording
	ErrNoFrames = errors.New("replay has no frames")
	// ErrNoStage is returned when loading a recording without a stage
	ErrNoStage = errors.New("replay has no stage")
)

// Save writes data to filename as indented JSON
func Save(filename string, data ReplayData) error {
	if len(data.Frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Stage == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoStage)
	}
	if len(data.Frames) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoFrames)
	}

	return &data, nil
}

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// GetInput returns the input for the current frame and advances
func (r *Replayer) GetInput() (system.InputState, bool) {
	if r.frame >= len(r.data.Frames) {
		return system.InputState{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++
	return fi.Input(), true
}

// FrameDt returns the recorded frame length, defaulting to 1/60
func (r *Replayer) FrameDt() float64 {
	if r.data.FrameDt <= 0 {
		return 1.0 / 60.0
	}
	return r.data.FrameDt
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Stage returns the recorded stage name
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// Backend returns the recorded physics backend
func (r *Replayer) Backend() string {
	return r.data.Backend
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data holding a constant axis
func CreateTestReplayData(frames int, axis float64) ReplayData {
	data := NewReplayData("test", "", 1.0/60.0)
	for i := 0; i < frames; i++ {
		data.Frames = append(data.Frames, FrameInput{F: i, Ax: axis})
	}
	return data
}
