package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dashkit/goldenflower/internal/activity"
	"github.com/dashkit/goldenflower/internal/game"
	"github.com/dashkit/goldenflower/internal/ledger"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B8860B")).
			Padding(0, 1).
			Bold(true)

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	turnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PlayCmd runs an interactive table at the terminal
type PlayCmd struct {
	Players int    `kong:"default='4',short='p',help='Players at the table (3-6)'"`
	Balance int    `kong:"default='1000',help='Starting balance'"`
	Name    string `kong:"default='You',help='Display name'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

const humanID = "human"

func (c *PlayCmd) Run() error {
	if c.Players < game.MinPlayers || c.Players > game.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}

	// Keep stdout clean for the table; logs go to a file.
	logFile, err := os.OpenFile("goldenflower-play.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	store := seedDirectory()
	store.Add(ledger.Entry{ID: humanID, Name: c.Name, Balance: c.Balance, Status: ledger.StatusActive})

	opts := []game.SessionOption{
		game.WithActivity(activity.NewLogSink(logger)),
	}
	if c.Seed != nil {
		opts = append(opts, game.WithSeed(*c.Seed))
	}

	session := game.NewSession(logger, store, humanID, c.Name, opts...)
	session.SetOnUpdate(func() {
		if snapshot, ok := session.Snapshot(humanID); ok {
			fmt.Println(renderTable(&snapshot))
			if snapshot.Phase == "playing" && isHumanTurn(&snapshot) {
				fmt.Print("> ")
			}
		}
	})

	fmt.Println(titleStyle.Render(" ♠ ♥ Golden Flower ♦ ♣ "))
	fmt.Println(dimStyle.Render("commands: deal, look, fold, call, raise, compare, quit"))
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch input {
		case "":
		case "quit", "q", "exit":
			return nil
		case "deal", "start":
			if err := session.StartGame(c.Players); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
		default:
			action, err := game.ParseAction(input)
			if err != nil {
				fmt.Println(errorStyle.Render("unknown command: " + input))
				break
			}
			if err := session.SubmitAction(humanID, action); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

func isHumanTurn(s *game.Snapshot) bool {
	for _, p := range s.Players {
		if p.Human {
			return p.Turn
		}
	}
	return false
}

func renderTable(s *game.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s   pot %d   bet %d   round %d\n",
		strings.ToUpper(s.Phase), s.Pot, s.CurrentBet, s.BettingRound)

	for _, p := range s.Players {
		marker := "  "
		if p.Turn {
			marker = turnStyle.Render("→ ")
		}

		name := p.Name
		if p.Title != "" {
			name += dimStyle.Render(" [" + p.Title + "]")
		}

		state := "blind"
		switch {
		case p.Folded:
			state = dimStyle.Render("folded")
		case p.Seen:
			state = "seen"
		}

		cards := dimStyle.Render("🂠 🂠 🂠")
		if len(p.Cards) > 0 {
			cards = renderCards(p.Cards)
		}

		fmt.Fprintf(&b, "%s%-24s %6d  bet %4d  %-8s %s\n",
			marker, name, p.Balance, p.TotalBet, state, cards)
	}

	if len(s.Log) > 0 {
		b.WriteString(dimStyle.Render(s.Log[len(s.Log)-1]))
		b.WriteString("\n")
	}

	if s.Phase == "ended" && s.WinnerSeat >= 0 && s.WinnerSeat < len(s.Players) {
		fmt.Fprintf(&b, "%s wins the pot of %d\n", s.Players[s.WinnerSeat].Name, s.Pot)
	}

	return tableStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderCards styles card strings such as "A♠ K♥ 9♦".
func renderCards(cards []string) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		if strings.HasSuffix(c, "♥") || strings.HasSuffix(c, "♦") {
			parts = append(parts, redCardStyle.Render(c))
		} else {
			parts = append(parts, blackCardStyle.Render(c))
		}
	}
	return strings.Join(parts, " ")
}
