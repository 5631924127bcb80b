package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed expense category identifiers
type Category string

const (
	CategoryFood          Category = "food"
	CategoryGroceries     Category = "groceries"
	CategoryTransport     Category = "transport"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryHealthcare    Category = "healthcare"
	CategoryShopping      Category = "shopping"
	CategoryTravel        Category = "travel"
	CategoryEducation     Category = "education"
	CategoryOther         Category = "other"
)

var allCategories = []Category{
	CategoryFood,
	CategoryGroceries,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryTravel,
	CategoryEducation,
	CategoryOther,
}

// Categories returns every valid category in display order
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory returns the category matching s, ignoring case and surrounding whitespace
func ParseCategory(s string) (Category, error) {
	normalized := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range allCategories {
		if c == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// DateLayout is the wire format used for calendar dates
const DateLayout = "2006-01-02"

// Result is the candidate expense produced by a successful pipeline run
type Result struct {
	Merchant   string          `json:"merchant"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Category   Category        `json:"category"`
	Confidence float64         `json:"confidence"`
	RawText    string          `json:"raw_text"`
}

// MarshalJSON renders the date as YYYY-MM-DD and the amount with two places
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Merchant   string   `json:"merchant"`
		Amount     string   `json:"amount"`
		Date       string   `json:"date"`
		Category   Category `json:"category"`
		Confidence float64  `json:"confidence"`
		RawText    string   `json:"raw_text"`
	}{
		Merchant:   r.Merchant,
		Amount:     r.Amount.StringFixed(2),
		Date:       r.Date.Format(DateLayout),
		Category:   r.Category,
		Confidence: r.Confidence,
		RawText:    r.RawText,
	})
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// today truncates the clock reading to midnight in its own location
func today(clock TimeSource) time.Time {
	return truncateDay(clock.Now())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
