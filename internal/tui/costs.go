package tui

import "fmt"

// ModelPricing contains pricing per 1M tokens, in USD.
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},

	"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
	"o3":          {InputPer1M: 10.0, OutputPer1M: 40.0},

	// Conservative fallback for unknown models
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens estimates token count from character count (1 token ≈ 4 characters).
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost calculates the estimated cost in USD for a model given token counts.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}

	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000
	return inputCost + outputCost
}

// Estimate is the projected size and price of generating a set of activities.
type Estimate struct {
	Activities   int
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// EstimateSet projects the cost of generating n activities.
// Each request carries the full prompt; the reply is about the size of the template.
func EstimateSet(model string, promptChars, templateChars, n int) Estimate {
	in := EstimateTokens(promptChars) * n
	out := EstimateTokens(templateChars) * n
	return Estimate{
		Activities:   n,
		InputTokens:  in,
		OutputTokens: out,
		Cost:         EstimateCost(model, in, out),
	}
}

// String renders the estimate on one line.
func (e Estimate) String() string {
	return fmt.Sprintf("%d activities  ~%s in / ~%s out  est. %s",
		e.Activities, FormatTokens(e.InputTokens), FormatTokens(e.OutputTokens), FormatCost(e.Cost))
}

// FormatCost formats a cost in USD with precision suited to its magnitude.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.001:
		return fmt.Sprintf("$%.4f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.3f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}

// FormatTokens formats a token count, using a k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}
