package state

// GameState represents the current phase of a level session
type GameState int

const (
	StatePlaying GameState = iota
	StatePaused
	StateRespawning
	StateLevelComplete
	StateAdvancing
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateRespawning:
		return "Respawning"
	case StateLevelComplete:
		return "LevelComplete"
	case StateAdvancing:
		return "Advancing"
	default:
		return "Unknown"
	}
}
