package engine

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
	"github.com/prasheelsuvarna/Crash-game/pkg/crypto"
)

const (
	minCrashPoint = 1.1
	maxCrashPoint = 10.0
)

// handleStartRound creates the next round: it retires any timers still tied
// to the previous round, force-crashes a round that somehow never crashed,
// drains the whole pending queue into the new round's bet list and starts
// the multiplier run.
func (e *Engine) handleStartRound() {
	if e.current != nil && e.current.Status != models.RoundCrashed {
		e.current.Status = models.RoundCrashed
		e.persistRound(e.current)
		log.Warnf("round %s forced to crashed before new round", e.current.RoundID)
	}

	if e.roundStop != nil {
		close(e.roundStop)
	}
	e.roundStop = make(chan struct{})
	e.epoch++

	crashPoint := sampleCrashPoint()
	crashSeconds := e.sampleCrashSeconds()
	crashDuration := time.Duration(crashSeconds) * time.Second
	now := time.Now()

	round := &models.Round{
		RoundID:    fmt.Sprintf("round_%d", now.UnixMilli()),
		StartTime:  now,
		CrashPoint: crashPoint,
		Status:     models.RoundActive,
		Bets:       e.pending,
		Cashouts:   []models.Cashout{},
	}
	e.pending = nil
	e.current = round
	e.multiplier = 1.0

	for _, bet := range round.Bets {
		e.hub.Broadcast(models.BetStatusEvent{Event: "entered", PlayerID: bet.PlayerID, RoundID: round.RoundID})
		log.Infof("player %s entered round %s", bet.PlayerID, round.RoundID)
	}

	e.hub.Broadcast(models.NewRoundEvent{NewRound: true, RoundID: round.RoundID})
	log.Infof("new round %s started, will crash in %ds at %.2fx", round.RoundID, crashSeconds, crashPoint)

	go e.runMultiplier(e.epoch, crashPoint, crashDuration, now, e.roundStop)
}

func (e *Engine) handleTick(c tickCmd) {
	if c.epoch != e.epoch || e.current == nil || e.current.Status != models.RoundActive {
		return
	}

	if c.terminal {
		e.handleCrash(c)
		return
	}

	e.multiplier = c.multiplier
	e.hub.Broadcast(models.TickEvent{Multiplier: c.multiplier})
}

// handleCrash finalizes the round at the crash point and kicks off the
// countdown to the next one. Persistence is best-effort: a failed archive is
// logged and never blocks the scheduler.
func (e *Engine) handleCrash(c tickCmd) {
	round := e.current
	round.Status = models.RoundCrashed
	e.multiplier = round.CrashPoint

	didntCashOut := round.PlayersWhoDidntCashOut()
	log.Infof("round %s crashed at %.2fx, %d players did not cash out", round.RoundID, round.CrashPoint, len(didntCashOut))

	e.hub.Broadcast(models.CrashEvent{
		Multiplier:             round.CrashPoint,
		Crashed:                true,
		PlayersWhoDidntCashOut: didntCashOut,
	})

	e.persistRound(round)

	remaining := e.opts.RoundDuration - c.elapsed
	if remaining < 0 {
		remaining = 0
	}
	go e.runCountdown(e.epoch, remaining, e.roundStop)
}

func (e *Engine) handleCountdown(c countdownCmd) {
	if c.epoch != e.epoch {
		return
	}

	if c.remaining == 0 {
		e.handleStartRound()
		return
	}

	e.hub.Broadcast(models.CountdownEvent{
		Message:   fmt.Sprintf("Game crashed, wait for %d seconds till next round starts", c.remaining),
		Countdown: c.remaining,
	})
}

// runCountdown publishes the remaining whole seconds until the next round on
// the configured cadence, then triggers the round start. The tick count is
// derived from the remaining duration, so the wait after a crash equals the
// fixed round length minus the crash time at any cadence.
func (e *Engine) runCountdown(epoch uint64, remaining time.Duration, stop <-chan struct{}) {
	interval := e.opts.CountdownInterval
	ticks := int((remaining + interval - 1) / interval)
	if ticks <= 0 {
		e.enqueue(countdownCmd{epoch: epoch, remaining: 0})
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			secs := int(math.Ceil((time.Duration(ticks) * interval).Seconds()))
			e.enqueue(countdownCmd{epoch: epoch, remaining: secs})
			ticks--
			if ticks == 0 {
				e.enqueue(countdownCmd{epoch: epoch, remaining: 0})
				return
			}
		}
	}
}

func (e *Engine) persistRound(round *models.Round) {
	if err := e.rounds.SaveRound(round); err != nil {
		log.Errorf("failed to persist round %s: %v", round.RoundID, err)
	}
}

// sampleCrashPoint draws a uniform crash point in [1.1, 10.0] at two-decimal
// resolution.
func sampleCrashPoint() float64 {
	f, err := crypto.GenerateSecureFloat64()
	if err != nil {
		log.Errorf("crash point sampling failed, using midpoint: %v", err)
		f = 0.5
	}
	cp := minCrashPoint + f*(maxCrashPoint-minCrashPoint)
	return math.Round(cp*100) / 100
}

// sampleCrashSeconds draws a uniform integer crash time strictly inside the
// fixed round duration.
func (e *Engine) sampleCrashSeconds() int {
	span := int64(e.opts.MaxCrashSeconds - e.opts.MinCrashSeconds + 1)
	n, err := crypto.GenerateSecureRandomInt(span)
	if err != nil {
		log.Errorf("crash time sampling failed, using minimum: %v", err)
		n = 0
	}
	return e.opts.MinCrashSeconds + int(n)
}
