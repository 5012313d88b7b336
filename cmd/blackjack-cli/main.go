package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/gesture"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const sessionID = "local"

const (
	optionHit     = "Hit"
	optionStand   = "Stand"
	optionGesture = "Read gesture"
	optionQuit    = "Quit"
)

func main() {
	balanceFlag := flag.Int64("balance", blackjack.DefaultStartingBalance, "starting balance")
	seedFlag := flag.Int64("seed", 0, "shuffle seed (0 = random)")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	cfg := blackjack.DefaultConfig()
	cfg.StartingBalance = *balanceFlag
	cfg.Seed = *seedFlag
	engine, err := blackjack.NewEngine(cfg, nil)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	detector, err := gesture.NewSimulator(gesture.DefaultConfig())
	if err != nil {
		logger.Error("gesture detector", "err", err)
		os.Exit(1)
	}
	engine.OnRoundSettled(func(r blackjack.RoundResult) {
		logger.Debug("round settled", "round", r.Round, "winner", r.Winner.String(), "delta", r.Delta)
	})

	title, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Black", pterm.FgLightWhite.ToStyle()),
		putils.LettersFromStringWithStyle("jack", pterm.FgRed.ToStyle()),
	).Srender()
	pterm.Print(title)

	for {
		snap := engine.Session(sessionID)
		printState(snap)

		switch snap.Phase {
		case blackjack.PhaseInProgress:
			if !playTurn(engine, detector, logger) {
				return
			}
		case blackjack.PhaseRoundOver:
			pterm.Println(resultPanel(snap))
			if snap.PlayerMoney <= 0 {
				pterm.Warning.Println("You are out of money. Resetting the table.")
				engine.Reset(sessionID)
				continue
			}
			engine.NewRound(sessionID)
		default:
			if !placeBet(engine, snap, logger) {
				return
			}
		}
	}
}

func placeBet(engine *blackjack.Engine, snap blackjack.Snapshot, logger *slog.Logger) bool {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Your bet (q to quit)").
		WithDefaultValue(strconv.FormatInt(min(10, snap.PlayerMoney), 10)).
		Show()
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "q") {
		return false
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		pterm.Error.Printfln("%q is not a number", raw)
		return true
	}
	if _, err := engine.PlaceBet(sessionID, amount); err != nil {
		var betErr *blackjack.InvalidBetError
		if errors.As(err, &betErr) {
			pterm.Error.Println(betErr.Error())
			return true
		}
		logger.Warn("bet rejected", "err", err)
	}
	return true
}

func playTurn(engine *blackjack.Engine, detector *gesture.Simulator, logger *slog.Logger) bool {
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select your next action").
		WithOptions([]string{optionHit, optionStand, optionGesture, optionQuit}).
		Show()

	var err error
	switch choice {
	case optionHit:
		_, err = engine.Hit(sessionID)
	case optionStand:
		_, err = engine.Stand(sessionID)
	case optionGesture:
		sample := detector.Sample()
		pterm.Println(gesturePanel(sample))
		if !sample.IsConfident {
			return true
		}
		_, err = engine.ApplyAction(sessionID, blackjack.ParseAction(sample.Label.String()))
	case optionQuit:
		return false
	}
	if err != nil {
		logger.Warn("action rejected", "action", choice, "err", err)
	}
	return true
}
