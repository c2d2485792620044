package stats

import (
	"math"
	"testing"
)

func TestWilsonInterval_ZeroTrials(t *testing.T) {
	lower, upper := WilsonInterval(0, 0, 0.95)
	if lower != 0 || upper != 0 {
		t.Errorf("WilsonInterval(0, 0) = (%v, %v), want (0, 0)", lower, upper)
	}
}

func TestWilsonInterval_Bounds(t *testing.T) {
	tests := []struct {
		successes, trials int64
	}{
		{0, 10},
		{10, 10},
		{5, 10},
		{1, 1000},
		{999, 1000},
	}
	for _, tt := range tests {
		lower, upper := WilsonInterval(tt.successes, tt.trials, 0.95)
		if lower < 0 || upper > 1 {
			t.Errorf("WilsonInterval(%d, %d) = (%v, %v), out of [0, 1]", tt.successes, tt.trials, lower, upper)
		}
		if lower > upper {
			t.Errorf("WilsonInterval(%d, %d) = (%v, %v), lower > upper", tt.successes, tt.trials, lower, upper)
		}
	}
}

func TestWilsonInterval_ContainsProportion(t *testing.T) {
	lower, upper := WilsonInterval(50, 100, 0.95)
	if lower >= 0.5 || upper <= 0.5 {
		t.Errorf("WilsonInterval(50, 100) = (%v, %v), must bracket 0.5", lower, upper)
	}
	// Known value: 50/100 at 95% gives roughly (0.404, 0.596).
	if math.Abs(lower-0.404) > 0.01 || math.Abs(upper-0.596) > 0.01 {
		t.Errorf("WilsonInterval(50, 100) = (%v, %v), want ~(0.404, 0.596)", lower, upper)
	}
}

func TestWilsonInterval_NarrowsWithSample(t *testing.T) {
	smallLower, smallUpper := WilsonInterval(5, 10, 0.95)
	bigLower, bigUpper := WilsonInterval(500, 1000, 0.95)

	if (bigUpper - bigLower) >= (smallUpper - smallLower) {
		t.Errorf("interval did not narrow: small=(%v, %v) big=(%v, %v)",
			smallLower, smallUpper, bigLower, bigUpper)
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		confidence float64
		want       float64
	}{
		{0.99, 2.576},
		{0.95, 1.96},
		{0.90, 1.645},
	}
	for _, tt := range tests {
		if got := ZScore(tt.confidence); got != tt.want {
			t.Errorf("ZScore(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestApproximateZScore(t *testing.T) {
	// The rational approximation should agree with the table values.
	if got := approximateZScore(0.95); math.Abs(got-1.96) > 0.01 {
		t.Errorf("approximateZScore(0.95) = %v, want ~1.96", got)
	}
	if got := approximateZScore(0.50); math.Abs(got-0.674) > 0.01 {
		t.Errorf("approximateZScore(0.50) = %v, want ~0.674", got)
	}
}
