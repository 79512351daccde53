package engine

import "errors"

type ErrorCode string

const (
	CodeValidation         ErrorCode = "ValidationError"
	CodeNotFound           ErrorCode = "NotFoundError"
	CodeInsufficientFunds  ErrorCode = "InsufficientFunds"
	CodeNoActiveRound      ErrorCode = "NoActiveRound"
	CodeAlreadyCashedOut   ErrorCode = "AlreadyCashedOut"
	CodePendingBetConflict ErrorCode = "PendingBetConflict"
	CodeNoBetFound         ErrorCode = "NoBetFound"
	CodePriceUnavailable   ErrorCode = "PriceUnavailable"
)

// GameError is a rejected command. The code is a machine discriminator for
// clients; the message is human-readable.
type GameError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
}

func (e *GameError) Error() string {
	return e.Message
}

func gameErr(code ErrorCode, message string) *GameError {
	return &GameError{Code: code, Message: message}
}

// AsGameError unwraps err into a GameError, if it is one.
func AsGameError(err error) (*GameError, bool) {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// Sentinels returned by WalletStore implementations.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPlayerNotFound      = errors.New("player not found")
)

// ErrEngineStopped is returned for commands issued after shutdown.
var ErrEngineStopped = errors.New("game engine stopped")
