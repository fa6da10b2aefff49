package room

// Broadcaster fans room events out to connected clients.
type Broadcaster interface {
	Broadcast(roomCode string, action string, data interface{})
}

// Broadcast actions.
const (
	ActionStateUpdated         = "state-updated"
	ActionMoveApplied          = "move-applied"
	ActionPassed               = "passed"
	ActionRestrictionActivated = "restriction-activated"
	ActionGameOver             = "game-over"
)
