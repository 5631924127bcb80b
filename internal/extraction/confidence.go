package extraction

import "time"

// Scores are kept in tenths so that a full score is exactly 1.0
const (
	baseScore     = 5
	merchantScore = 2
	amountScore   = 2
	dateScore     = 1
	maxScore      = 10
)

// Signals are the facts the confidence score is based on
type Signals struct {
	Merchant    string
	AmountFound bool
	Date        time.Time
}

// Scorer estimates how trustworthy an extraction is
type Scorer struct {
	clock TimeSource
}

// NewScorer returns a scorer that compares dates against clock
func NewScorer(clock TimeSource) Scorer {
	if clock == nil {
		clock = defaultTimeSource{}
	}
	return Scorer{clock: clock}
}

// Score returns a value in [0.5, 1.0].
// A date equal to today counts as "no date found", even for a receipt
// genuinely issued today.
func (s Scorer) Score(sig Signals) float64 {
	score := baseScore
	if sig.Merchant != "" && sig.Merchant != UnknownMerchant {
		score += merchantScore
	}
	if sig.AmountFound {
		score += amountScore
	}
	if !sig.Date.IsZero() && !truncateDay(sig.Date).Equal(today(s.clock)) {
		score += dateScore
	}
	return float64(min(score, maxScore)) / maxScore
}
