package entity

// CueKind names a fire-and-forget presentation event
type CueKind int

const (
	CueJump CueKind = iota
	CueChargeStart
	CueDash
	CueLand
	CueDeath
	CueRespawn
	CueLevelComplete
	CueCheckpoint
	CueWallBreak
	CueStalkerDefeated
	CueHeartbeat
	CueHeartbeatStop
)

var cueNames = [...]string{
	"jump",
	"charge_start",
	"dash",
	"land",
	"death",
	"respawn",
	"level_complete",
	"checkpoint",
	"wall_break",
	"stalker_defeated",
	"heartbeat",
	"heartbeat_stop",
}

func (k CueKind) String() string {
	if k < 0 || int(k) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[k]
}

// Cue is a presentation request. Strength is cue specific: squash amount
// for landings, charge fraction for jumps, danger level for heartbeats.
type Cue struct {
	Kind     CueKind
	Strength float64
	At       Vec2
}
