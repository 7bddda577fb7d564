package llm

// price is USD per million tokens.
type price struct {
	in, out float64
}

var prices = map[string]price{
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"gpt-4o":                    {2.5, 10},
	"gpt-4o-mini":               {0.15, 0.6},
	"gemini-2.0-flash":          {0.1, 0.4},
	"gemini-2.5-flash":          {0.3, 2.5},
	"gemini-2.5-pro":            {1.25, 10},

	"google/gemini-2.0-flash-001": {0.1, 0.4},
}

// EstimateCost returns the USD cost of a call, or false when the model
// is not in the table.
func EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	p, ok := prices[model]
	if !ok {
		return 0, false
	}
	return (float64(inputTokens)*p.in + float64(outputTokens)*p.out) / 1e6, true
}
