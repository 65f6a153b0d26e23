package deck

import "testing"

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected Card
		wantErr  bool
	}{
		{input: "As", expected: Card{Suit: Spades, Rank: Ace}},
		{input: "Th", expected: Card{Suit: Hearts, Rank: Ten}},
		{input: "2d", expected: Card{Suit: Diamonds, Rank: Two}},
		{input: "kC", expected: Card{Suit: Clubs, Rank: King}},
		{input: "9s", expected: Card{Suit: Spades, Rank: Nine}},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		card, err := ParseCard(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCard(%q): expected error, got %v", tt.input, card)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCard(%q): unexpected error %v", tt.input, err)
			continue
		}
		if card != tt.expected {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.input, card, tt.expected)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card     Card
		expected string
	}{
		{Card{Suit: Spades, Rank: Ace}, "A♠"},
		{Card{Suit: Hearts, Rank: Ten}, "T♥"},
		{Card{Suit: Diamonds, Rank: Two}, "2♦"},
		{Card{Suit: Clubs, Rank: Queen}, "Q♣"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.expected {
			t.Errorf("%v.String() = %q, want %q", tt.card, got, tt.expected)
		}
	}
}

func TestCardValue(t *testing.T) {
	t.Parallel()
	if v := (Card{Suit: Spades, Rank: Two}).Value(); v != 2 {
		t.Errorf("two should have value 2, got %d", v)
	}
	if v := (Card{Suit: Spades, Rank: Ace}).Value(); v != 14 {
		t.Errorf("ace should have value 14, got %d", v)
	}
}

func TestSuitIsRed(t *testing.T) {
	t.Parallel()
	if !Hearts.IsRed() || !Diamonds.IsRed() {
		t.Error("hearts and diamonds should be red")
	}
	if Spades.IsRed() || Clubs.IsRed() {
		t.Error("spades and clubs should not be red")
	}
}
