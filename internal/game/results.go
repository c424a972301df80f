package game

import "math/big"

// Outcome tags the result of a shoot so the transport can attach the
// matching visual without knowing anything else about the game.
type Outcome string

const (
	OutcomeBang  Outcome = "bang"
	OutcomeClick Outcome = "click"
)

// DepositResult reports a successful enrollment.
type DepositResult struct {
	Identity    string
	PlayerCount int
	Pot         *big.Int
}

// StartResult reports a successful game start.
type StartResult struct {
	FirstPlayer string
	PlayerCount int
	Pot         *big.Int
}

// ShootResult reports a resolved shoot. When GameOver is set, Winner
// and Pot carry the final payout; otherwise NextPlayer carries the new
// current player.
type ShootResult struct {
	Outcome    Outcome
	Shooter    string
	Eliminated string // set on bang
	Pot        *big.Int
	AliveCount int
	NextPlayer string
	GameOver   bool
	Winner     string
}

// PassResult reports a successful pass.
type PassResult struct {
	Passer      string
	Burned      *big.Int
	Pot         *big.Int
	NextPlayer  string
	ForcedShoot bool // the next player just exhausted a full pass rotation
}

// StatusResult is the read-only snapshot for status queries.
type StatusResult struct {
	Status        Status
	Pot           *big.Int
	TotalCount    int
	AliveCount    int
	Roster        []string // all identities, enrollment order
	Alive         []string // alive identities, enrollment order
	CurrentPlayer string   // set while active
	ForcedShoot   bool
}
