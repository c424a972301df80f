package game

// Action records what a player did in the current shoot-rotation.
type Action int

const (
	ActionNone Action = iota
	ActionShot
	ActionPassed
)

// String returns the string representation of an action.
func (a Action) String() string {
	switch a {
	case ActionShot:
		return "shot"
	case ActionPassed:
		return "passed"
	default:
		return "none"
	}
}

// Player is a single enrolled player. Identity is the chat identity the
// transport acts on; PayoutAddress labels the eventual payout and may be
// supplied separately from Identity.
type Player struct {
	Identity      string
	PayoutAddress string
	Alive         bool
	LastAction    Action
}
