package main

import (
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
	"blackjack-lite/gesture"

	"github.com/pterm/pterm"
)

func renderCard(c card.Card) string {
	if c.Suit().IsRed() {
		return pterm.BgWhite.Sprint(pterm.Red(" " + c.String() + " "))
	}
	return pterm.BgWhite.Sprint(pterm.Black(" " + c.String() + " "))
}

func renderHand(cards []card.Card, hideHole bool) string {
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		if hideHole && i == 1 {
			parts = append(parts, pterm.BgBlue.Sprint(pterm.LightCyan(" ?? ")))
			continue
		}
		parts = append(parts, renderCard(c))
	}
	if len(parts) == 0 {
		return pterm.FgDarkGray.Sprint("(no cards)")
	}
	return strings.Join(parts, " ")
}

// printState draws the dealer, the player and the bank side by side.
func printState(s blackjack.Snapshot) {
	hideHole := s.Phase == blackjack.PhaseInProgress && len(s.DealerHand) > 1
	dealerScore := s.DealerScore
	if hideHole {
		dealerScore = card.Score(s.DealerHand[:1])
	}

	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTopPadding(1).WithBottomPadding(1)
	dealer := box.WithTitle(pterm.LightRed("|DEALER|")).WithTitleTopCenter().
		Sprintf("%s\n\nScore: %d", renderHand(s.DealerHand, hideHole), dealerScore)
	player := box.WithTitle(pterm.LightCyan("|YOU|")).WithTitleTopCenter().
		Sprintf("%s\n\nScore: %d", renderHand(s.PlayerHand, false), s.PlayerScore)
	bank := box.WithTitle(pterm.LightYellow("|BANK|")).WithTitleTopCenter().
		Sprintf("Money: %d\nBet:   %d\nW/L/P: %d/%d/%d",
			s.PlayerMoney, s.Bet, s.RoundsWon, s.RoundsLost, s.RoundsPushed)

	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: dealer}, {Data: player}, {Data: bank}},
	}).Render()

	if s.Message != "" && s.Phase == blackjack.PhaseInProgress {
		pterm.Info.Println(s.Message)
	}
}

func resultPanel(s blackjack.Snapshot) string {
	title := pterm.LightYellow("|PUSH|")
	switch s.Winner {
	case blackjack.WinnerPlayer:
		title = pterm.LightGreen("|YOU WIN|")
	case blackjack.WinnerDealer:
		title = pterm.LightRed("|DEALER WINS|")
	}
	return pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1).
		WithTitle(title).WithTitleTopCenter().
		Sprintf("%s\nBalance: %d", s.Message, s.PlayerMoney)
}

func gesturePanel(s gesture.Sample) string {
	verdict := pterm.FgDarkGray.Sprint("not confident, ignored")
	if s.IsConfident {
		verdict = pterm.LightGreen("confident, applying " + s.Label.String())
	}
	return pterm.DefaultBox.WithTitle(pterm.LightMagenta("|GESTURE|")).WithTitleTopCenter().
		Sprintf("%s  %.2f (%s)\n%s", s.Label, s.Confidence, s.Quality, verdict)
}
