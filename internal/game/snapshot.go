package game

// PlayerView is the per-viewer projection of a seated player. Cards are
// populated only when the viewer is allowed to see them: the hand is
// revealed to everyone, or the viewer holds it and has looked.
type PlayerView struct {
	Seat     int      `json:"seat"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Balance  int      `json:"balance"`
	TotalBet int      `json:"totalBet"`
	Folded   bool     `json:"folded"`
	Seen     bool     `json:"seen"`
	Revealed bool     `json:"revealed"`
	Turn     bool     `json:"turn"`
	Human    bool     `json:"human"`
	Status   string   `json:"status,omitempty"`
	Tier     string   `json:"tier,omitempty"`
	Cards    []string `json:"cards,omitempty"`
}

// Snapshot is the read-only view of a round handed to the presentation
// layer after every transition.
type Snapshot struct {
	Phase        string       `json:"phase"`
	Pot          int          `json:"pot"`
	CurrentBet   int          `json:"currentBet"`
	BettingRound int          `json:"bettingRound"`
	Dealer       int          `json:"dealer"`
	WinnerSeat   int          `json:"winnerSeat"`
	Players      []PlayerView `json:"players"`
	Log          []string     `json:"log"`
}

// Snapshot projects the round for the given viewer.
func (r *Round) Snapshot(viewerID string) Snapshot {
	s := Snapshot{
		Phase:        r.Phase.String(),
		Pot:          r.Pot,
		CurrentBet:   r.CurrentBet,
		BettingRound: r.BettingRound,
		Dealer:       r.Dealer,
		WinnerSeat:   r.WinnerSeat,
		Players:      make([]PlayerView, len(r.Players)),
		Log:          r.Log(),
	}

	for seat, p := range r.Players {
		view := PlayerView{
			Seat:     seat,
			ID:       p.ID,
			Name:     p.Name,
			Title:    p.Title,
			Balance:  p.Balance,
			TotalBet: p.TotalBet,
			Folded:   p.Folded,
			Seen:     p.Seen,
			Revealed: p.Revealed,
			Turn:     seat == r.Active && r.Phase == Playing,
			Human:    p.Human,
			Status:   p.Status,
		}
		if !p.Human {
			view.Tier = p.Tier.String()
		}
		if p.Revealed || (p.ID == viewerID && p.Seen) {
			view.Cards = make([]string, len(p.Hand))
			for i, c := range p.Hand {
				view.Cards[i] = c.String()
			}
		}
		s.Players[seat] = view
	}
	return s
}
