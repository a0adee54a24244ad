package playing

import (
	"fmt"
	"time"

	"github.com/younwookim/parallelrun/internal/application/replay"
	"github.com/younwookim/parallelrun/internal/application/system"
)

// Recorder captures per-frame input for replay
type Recorder struct {
	data      replay.ReplayData
	recording bool
	frame     int
}

// NewRecorder starts a recording of stage sampled every frameDt seconds
func NewRecorder(stage, backend string, frameDt float64) *Recorder {
	return &Recorder{
		data:      replay.NewReplayData(stage, backend, frameDt),
		recording: true,
	}
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}

	r.data.Frames = append(r.data.Frames, replay.NewFrameInput(r.frame, input))
	r.frame++
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	return replay.Save(filename, r.data)
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GetData returns the replay data (for testing)
func (r *Recorder) GetData() replay.ReplayData {
	return r.data
}

// GenerateFilename names a recording after its stage and the current time
func GenerateFilename(stage string) string {
	return fmt.Sprintf("replay_%s_%s.json", stage, time.Now().Format("20060102_150405"))
}
