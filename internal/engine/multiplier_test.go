package engine

import (
	"testing"
	"time"
)

func TestMultiplierMonotonic(t *testing.T) {
	crashPoint := 7.36
	duration := 9 * time.Second

	prev := 0.0
	for elapsed := time.Duration(0); elapsed <= duration+time.Second; elapsed += 100 * time.Millisecond {
		m := MultiplierAt(crashPoint, duration, elapsed)
		if m < prev {
			t.Fatalf("multiplier decreased from %f to %f at elapsed %v", prev, m, elapsed)
		}
		prev = m
	}
}

func TestMultiplierStartsAtOne(t *testing.T) {
	m := MultiplierAt(5.0, 5*time.Second, 0)
	if m != 1.0 {
		t.Errorf("expected 1.0 at start, got %f", m)
	}
}

func TestMultiplierTerminalIsExactCrashPoint(t *testing.T) {
	crashPoint := 3.33
	duration := 4 * time.Second

	if m := MultiplierAt(crashPoint, duration, duration); m != crashPoint {
		t.Errorf("expected exact crash point %f at crash time, got %f", crashPoint, m)
	}
	if m := MultiplierAt(crashPoint, duration, duration+time.Minute); m != crashPoint {
		t.Errorf("expected crash point %f past crash time, got %f", crashPoint, m)
	}
}

func TestMultiplierMidpoint(t *testing.T) {
	// Linear curve: halfway through, halfway there.
	m := MultiplierAt(3.0, 8*time.Second, 4*time.Second)
	if m != 2.0 {
		t.Errorf("expected 2.0 at midpoint, got %f", m)
	}
}

func TestMultiplierRoundedToTwoDecimals(t *testing.T) {
	m := MultiplierAt(2.0, 3*time.Second, time.Second)
	if m != 1.33 {
		t.Errorf("expected 1.33, got %f", m)
	}
}

func TestMultiplierZeroDuration(t *testing.T) {
	if m := MultiplierAt(4.2, 0, time.Second); m != 4.2 {
		t.Errorf("expected crash point for zero duration, got %f", m)
	}
}
