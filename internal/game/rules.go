package game

// Rules holds the table stakes for a game.
type Rules struct {
	Ante      int // mandatory stake collected before dealing
	MaxBet    int // cap on the shared current bet
	MaxRounds int // betting rounds before compares are forced
}

// DefaultRules returns the house defaults.
func DefaultRules() Rules {
	return Rules{
		Ante:      100,
		MaxBet:    2000,
		MaxRounds: 15,
	}
}

// MinPlayers and MaxPlayers bound the supported seat counts. Six players
// consume 18 of 52 cards, so the deck never runs out.
const (
	MinPlayers = 3
	MaxPlayers = 6
)
