package extraction

import (
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	totalLineWeight = 10
	otherLineWeight = 1
)

// optional $, digits with optional thousands separators, optional point, two trailing digits
var amountPattern = regexp.MustCompile(`\$?\s*((?:\d{1,3}(?:,\d{3})+|\d+)\.?\d{2})`)

// totalKeywords mark a line as stating the payable amount
var totalKeywords = []string{
	"total", "amount", "sum", "balance", "due",
	"grand total", "subtotal", "amount due",
}

// AmountCandidate is a monetary value seen in the text with its priority
type AmountCandidate struct {
	Value  decimal.Decimal
	Weight int
}

// AmountExtractor finds the payable total in recognized text
type AmountExtractor struct{}

// Candidates returns every positive amount in text, in reading order, weighted
// by whether its line contains a total keyword.
func (AmountExtractor) Candidates(text string) []AmountCandidate {
	var out []AmountCandidate
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		weight := otherLineWeight
		if isTotalLine(line) {
			weight = totalLineWeight
		}
		for _, m := range amountPattern.FindAllStringSubmatch(line, -1) {
			cleaned := strings.NewReplacer(",", "", " ", "").Replace(m[1])
			value, err := decimal.NewFromString(cleaned)
			if err != nil || !value.IsPositive() {
				continue
			}
			out = append(out, AmountCandidate{Value: value, Weight: weight})
		}
	}
	return out
}

// Extract picks the highest-weight amount, breaking ties by the larger value.
// ok is false when the text holds no amount at all.
func (a AmountExtractor) Extract(text string) (amount decimal.Decimal, ok bool) {
	candidates := a.Candidates(text)
	if len(candidates) == 0 {
		return decimal.Zero, false
	}
	slices.SortStableFunc(candidates, func(x, y AmountCandidate) int {
		if x.Weight != y.Weight {
			return y.Weight - x.Weight
		}
		return y.Value.Cmp(x.Value)
	})
	return candidates[0].Value, true
}

func isTotalLine(line string) bool {
	for _, kw := range totalKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
