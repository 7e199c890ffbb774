package tui

import (
	"math"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	for chars, want := range map[int]int{0: 0, -10: 0, 3: 0, 40: 10, 4000: 1000} {
		if got := EstimateTokens(chars); got != want {
			t.Errorf("EstimateTokens(%d) = %d, want %d", chars, got, want)
		}
	}
}

func TestEstimateCostPerModel(t *testing.T) {
	// One activity: a ~12k-char prompt and a ~4k-char document back.
	const in, out = 3000, 1000

	tests := []struct {
		model string
		want  float64
	}{
		{"claude-opus-4-5-20251101", 0.040},
		{"claude-sonnet-4-5-20250929", 0.024},
		{"claude-haiku-4-5-20251001", 0.008},
		{"gpt-4o-mini", 0.00105},
		{"o3", 0.070},
		{"someone-elses-model", 0.030},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := EstimateCost(tt.model, in, out); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateCost(%s) = %f, want %f", tt.model, got, tt.want)
			}
		})
	}

	if got := EstimateCost("o3", 0, 0); got != 0 {
		t.Errorf("EstimateCost with no tokens = %f, want 0", got)
	}
}

func TestFormatting(t *testing.T) {
	costs := []struct {
		cost float64
		want string
	}{
		{0.00105, "$0.001"},
		{0.0004, "$0.0004"},
		{0.008, "$0.008"},
		{0.024, "$0.02"},
		{12.5, "$12.50"},
	}
	for _, tt := range costs {
		if got := FormatCost(tt.cost); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.cost, got, tt.want)
		}
	}

	tokens := []struct {
		n    int
		want string
	}{
		{999, "999"},
		{3000, "3.0k"},
		{9999, "10.0k"},
		{36000, "36k"},
	}
	for _, tt := range tokens {
		if got := FormatTokens(tt.n); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestEstimateSet(t *testing.T) {
	e := EstimateSet("claude-sonnet-4-5-20250929", 8000, 4000, 3)

	if e.Activities != 3 {
		t.Errorf("Activities = %d, want 3", e.Activities)
	}
	if e.InputTokens != 6000 || e.OutputTokens != 3000 {
		t.Errorf("tokens = %d/%d, want 6000/3000", e.InputTokens, e.OutputTokens)
	}
	// 6000*3/1M + 3000*15/1M
	if want := 0.063; math.Abs(e.Cost-want) > 1e-9 {
		t.Errorf("Cost = %f, want %f", e.Cost, want)
	}
	if got, want := e.String(), "3 activities  ~6.0k in / ~3.0k out  est. $0.06"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if empty := EstimateSet("o3", 8000, 4000, 0); empty.Cost != 0 || empty.InputTokens != 0 {
		t.Errorf("EstimateSet(n=0) = %+v, want zero cost", empty)
	}
}
