package ledger

import (
	"context"
	"log"
	"time"

	"blackjack-lite/blackjack"
)

// Recorder returns a settlement hook that writes each round to svc.
func Recorder(svc Service) blackjack.RoundHook {
	return func(result blackjack.RoundResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := svc.RecordRound(ctx, FromResult(result)); err != nil {
			log.Printf("[Ledger] record round failed: round=%d err=%v", result.Round, err)
		}
	}
}
