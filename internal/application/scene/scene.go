// Package scene defines the Scene interface for game screens.
//
// The playing scene implements it for each level; a level transition is a
// new Scene returned from Update.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents a game screen
//
// The game loop delegates Update and Draw calls to the current scene.
type Scene interface {
	// Update advances the scene by dt seconds of rendered time.
	// Returns the next scene if a transition is needed, nil to stay.
	// Returns an error to terminate the game.
	Update(dt float64) (next Scene, err error)

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called when the scene becomes current.
	OnEnter()

	// OnExit is called when the scene is replaced or the game shuts down.
	// Recordings are saved and sessions released here.
	OnExit()
}
