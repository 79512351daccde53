package models

// Broadcast payloads. One JSON object per event, matching what the game
// frontend consumes.

type TickEvent struct {
	Multiplier float64 `json:"multiplier"`
}

type CrashEvent struct {
	Multiplier             float64  `json:"multiplier"`
	Crashed                bool     `json:"crashed"`
	PlayersWhoDidntCashOut []string `json:"playersWhoDidntCashOut"`
}

type NewRoundEvent struct {
	NewRound bool   `json:"newRound"`
	RoundID  string `json:"roundId"`
}

type CountdownEvent struct {
	Message   string `json:"message"`
	Countdown int    `json:"countdown"`
}

// BetStatusEvent announces a bet moving through the queue: "queued" when
// accepted for a future round, "entered" when drained into a starting round.
type BetStatusEvent struct {
	Event    string `json:"event"`
	PlayerID string `json:"playerId"`
	RoundID  string `json:"roundId,omitempty"`
}
