package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Gemini text pricing per 1M tokens.
var modelPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash-lite": {InputPerM: 0.075, OutputPerM: 0.30},
}

// ResolvePricing returns the pricing for a model; unknown models cost zero.
func ResolvePricing(model string) Pricing {
	return modelPricing[model]
}

// Cost converts token usage to USD.
func (p Pricing) Cost(usage *schema.TokenUsage) (input, output, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	input = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	output = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	return input, output, input + output
}
