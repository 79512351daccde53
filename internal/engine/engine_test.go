package engine

import (
	"testing"
	"time"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

func waitFor(t *testing.T, what string, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %s", what)
		case <-ticker.C:
			if cond() {
				return
			}
		}
	}
}

func TestRoundLifecycle(t *testing.T) {
	te := newTestEngine()
	te.wallets.addPlayer("alice", models.Wallet{models.BTC: 1})

	go te.e.Run()
	defer te.e.Stop()

	waitFor(t, "first round", 2*time.Second, func() bool {
		return te.e.CurrentState().RoundID != ""
	})

	receipt, err := te.e.PlaceBet("alice", 100, models.BTC)
	if err != nil {
		t.Fatalf("unexpected error placing bet: %v", err)
	}
	if receipt.Status != "queued" {
		t.Errorf("expected queued status, got %s", receipt.Status)
	}

	// A placed bet never joins the in-flight round; wait until the queue is
	// drained into the next round.
	waitFor(t, "bet to enter a round", 5*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			e, ok := ev.(models.BetStatusEvent)
			return ok && e.Event == "entered" && e.PlayerID == "alice"
		})) > 0
	})

	waitFor(t, "round with alice active", 2*time.Second, func() bool {
		s := te.e.CurrentState()
		return s.Status == models.RoundActive && s.BetCount == 1
	})

	result, err := te.e.Cashout("alice")
	if err != nil {
		t.Fatalf("unexpected error cashing out: %v", err)
	}
	if result.Cashout.CryptoPayout < 0.002 {
		t.Errorf("payout %.8f below the bet amount at >=1.0x", result.Cashout.CryptoPayout)
	}
	expected := models.RoundCrypto(0.002 * result.Cashout.Multiplier)
	if result.Cashout.CryptoPayout != expected {
		t.Errorf("payout %.8f does not match bet x multiplier %.8f", result.Cashout.CryptoPayout, expected)
	}

	if _, err := te.e.Cashout("alice"); err == nil {
		t.Error("second cashout in the same round must fail")
	}
}

func TestBetPlacedDuringActiveRoundIsDeferred(t *testing.T) {
	te := newTestEngine()
	te.wallets.addPlayer("bob", models.Wallet{models.ETH: 10})

	go te.e.Run()
	defer te.e.Stop()

	waitFor(t, "active round", 2*time.Second, func() bool {
		return te.e.CurrentState().Status == models.RoundActive
	})

	if _, err := te.e.PlaceBet("bob", 300, models.ETH); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Immediately cashing out must conflict with the pending bet while the
	// round that was active at placement time is still running.
	if _, err := te.e.Cashout("bob"); err == nil {
		t.Error("expected cashout to fail while the bet is pending")
	} else if ge, _ := AsGameError(err); ge == nil || (ge.Code != CodePendingBetConflict && ge.Code != CodeNoActiveRound) {
		t.Errorf("unexpected rejection: %v", err)
	}

	s := te.e.CurrentState()
	if s.PendingBets != 1 && s.BetCount != 1 {
		t.Error("bet neither pending nor entered")
	}
}

func TestCountdownValuesNonIncreasing(t *testing.T) {
	te := newTestEngine()

	go te.e.Run()
	defer te.e.Stop()

	waitFor(t, "a crash", 5*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			_, ok := ev.(models.CrashEvent)
			return ok
		})) > 0
	})
	waitFor(t, "countdown messages", 2*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			_, ok := ev.(models.CountdownEvent)
			return ok
		})) > 0
	})

	events := te.hub.eventsOfType(func(ev interface{}) bool {
		_, ok := ev.(models.CountdownEvent)
		return ok
	})
	prev := int(^uint(0) >> 1)
	for _, ev := range events {
		c := ev.(models.CountdownEvent)
		if c.Countdown <= 0 {
			t.Errorf("countdown message with non-positive value %d", c.Countdown)
		}
		if c.Countdown > prev {
			// Values from consecutive rounds may restart; only check within
			// one inter-round gap.
			break
		}
		prev = c.Countdown
	}
}

func TestCrashToNextRoundGapMatchesRemainingDuration(t *testing.T) {
	te := newTestEngine()

	go te.e.Run()
	defer te.e.Stop()

	waitFor(t, "a crash", 5*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			_, ok := ev.(models.CrashEvent)
			return ok
		})) > 0
	})
	crashSeen := time.Now()

	waitFor(t, "the next round", 5*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			_, ok := ev.(models.NewRoundEvent)
			return ok
		})) >= 2
	})
	gap := time.Since(crashSeen)

	// The round runs 2s and crashes at 1s, so the inter-round wait must be
	// close to 1s regardless of the 100ms countdown cadence.
	if gap < 700*time.Millisecond || gap > 1500*time.Millisecond {
		t.Errorf("expected ~1s between crash and next round, got %v", gap)
	}

	countdowns := te.hub.eventsOfType(func(ev interface{}) bool {
		_, ok := ev.(models.CountdownEvent)
		return ok
	})
	if len(countdowns) != 10 {
		t.Errorf("expected 10 countdown messages for a 1s wait at 100ms cadence, got %d", len(countdowns))
	}
}

func TestConsecutiveRoundsProgress(t *testing.T) {
	te := newTestEngine()

	go te.e.Run()
	defer te.e.Stop()

	waitFor(t, "two rounds", 6*time.Second, func() bool {
		return len(te.hub.eventsOfType(func(ev interface{}) bool {
			_, ok := ev.(models.NewRoundEvent)
			return ok
		})) >= 2
	})

	if te.rounds.savedCount() < 1 {
		t.Error("expected at least one archived round after a full cycle")
	}
	for _, r := range te.rounds.savedRounds() {
		if r.Status != models.RoundCrashed {
			t.Errorf("archived round %s not crashed", r.RoundID)
		}
		if r.CrashPoint < 1.1 || r.CrashPoint > 10.0 {
			t.Errorf("archived round %s crash point %f out of range", r.RoundID, r.CrashPoint)
		}
	}
}
