package replay

import (
	"time"

	"github.com/younwookim/parallelrun/internal/application/system"
)

// Version is written into every recording
const Version = "2.0"

// FrameInput records input state for a single rendered frame
type FrameInput struct {
	F   int     `json:"f"`             // Frame number
	Ax  float64 `json:"ax,omitempty"`  // Horizontal axis
	JD  bool    `json:"jd,omitempty"`  // JumpDown
	JH  bool    `json:"jh,omitempty"`  // JumpHeld
	JU  bool    `json:"ju,omitempty"`  // JumpUp
	Dsh bool    `json:"dsh,omitempty"` // DashPressed
}

// NewFrameInput captures in as frame f
func NewFrameInput(f int, in system.InputState) FrameInput {
	return FrameInput{
		F:   f,
		Ax:  in.Axis,
		JD:  in.JumpDown,
		JH:  in.JumpHeld,
		JU:  in.JumpUp,
		Dsh: in.DashPressed,
	}
}

// Input converts the frame back to controller input
func (fi FrameInput) Input() system.InputState {
	return system.InputState{
		Axis:        fi.Ax,
		JumpDown:    fi.JD,
		JumpHeld:    fi.JH,
		JumpUp:      fi.JU,
		DashPressed: fi.Dsh,
	}
}

// ReplayData contains all data needed to replay a session. FrameDt is the
// rendered frame length the inputs were sampled at; Backend names the
// physics backend.
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	Backend   string       `json:"backend,omitempty"`
	FrameDt   float64      `json:"frameDt"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// NewReplayData starts an empty recording for stage
func NewReplayData(stage, backend string, frameDt float64) ReplayData {
	return ReplayData{
		Version:   Version,
		Stage:     stage,
		Backend:   backend,
		FrameDt:   frameDt,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
	}
}
