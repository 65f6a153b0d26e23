package game

import "fmt"

// Action represents a player action
type Action int

const (
	Look Action = iota
	Fold
	Call
	Raise
	Compare
)

func (a Action) String() string {
	return [...]string{"look", "fold", "call", "raise", "compare"}[a]
}

// ParseAction parses an action name as submitted by a client.
func ParseAction(s string) (Action, error) {
	switch s {
	case "look":
		return Look, nil
	case "fold":
		return Fold, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "compare":
		return Compare, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Phase represents the round lifecycle state
type Phase int

const (
	Setup Phase = iota
	Dealing
	Playing
	Ended
)

func (p Phase) String() string {
	return [...]string{"setup", "dealing", "playing", "ended"}[p]
}
