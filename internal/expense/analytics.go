package expense

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/extraction"
)

// Trend bucket sizes
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

const (
	minTrendMonths     = 1
	maxTrendMonths     = 24
	DefaultTrendMonths = 6
)

var hundred = decimal.NewFromInt(100)

// Period is an inclusive date range
type Period struct {
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`
}

// CategorySpending is one category's share of a summary
type CategorySpending struct {
	Category   extraction.Category `json:"category"`
	Amount     decimal.Decimal     `json:"amount"`
	Percentage decimal.Decimal     `json:"percentage"`
	Count      int                 `json:"count"`
}

// Summary totals spending over a period
type Summary struct {
	Total      decimal.Decimal    `json:"total"`
	ByCategory []CategorySpending `json:"by_category"`
	Period     Period             `json:"period"`
}

// TrendPoint is one bucket of a trend series
type TrendPoint struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Trends is a spending series in ascending bucket order
type Trends struct {
	Period string       `json:"period"`
	Data   []TrendPoint `json:"data"`
}

// Summary groups spending by category between start and end inclusive.
// A zero start means the first day of the current month; a zero end means today.
func (s *Service) Summary(start, end Date) (*Summary, error) {
	today := s.today()
	if start.IsZero() {
		start = NewDate(today.Year(), today.Month(), 1)
	}
	if end.IsZero() {
		end = today
	}
	if end.Before(start.Time) {
		return nil, invalid("end_date", "must not be before start_date")
	}

	expenses, err := s.expensesBetween(start, end)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := make(map[extraction.Category]*CategorySpending)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &CategorySpending{Category: e.Category, Amount: decimal.Zero}
			byCategory[e.Category] = cs
		}
		cs.Amount = cs.Amount.Add(e.Amount)
		cs.Count++
	}

	out := make([]CategorySpending, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.Percentage = decimal.Zero
		if total.IsPositive() {
			cs.Percentage = cs.Amount.Mul(hundred).Div(total).Round(2)
		}
		cs.Amount = cs.Amount.Round(2)
		out = append(out, *cs)
	}
	slices.SortFunc(out, func(a, b CategorySpending) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})

	return &Summary{
		Total:      total.Round(2),
		ByCategory: out,
		Period:     Period{StartDate: start, EndDate: end},
	}, nil
}

// Trends buckets spending over the last months by day, week (keyed by its
// Monday) or month (keyed by its first day)
func (s *Service) Trends(period string, months int) (*Trends, error) {
	bucket, err := trendBucket(period)
	if err != nil {
		return nil, err
	}
	if months < minTrendMonths || months > maxTrendMonths {
		return nil, invalid("months", "must be between %d and %d", minTrendMonths, maxTrendMonths)
	}

	end := s.today()
	start := subtractMonths(end, months)
	expenses, err := s.expensesBetween(start, end)
	if err != nil {
		return nil, err
	}

	var points []TrendPoint
	index := make(map[string]int)
	for _, e := range expenses {
		key := bucket(e.Date)
		i, ok := index[key.String()]
		if !ok {
			i = len(points)
			index[key.String()] = i
			points = append(points, TrendPoint{Date: key, Amount: decimal.Zero})
		}
		points[i].Amount = points[i].Amount.Add(e.Amount)
		points[i].Count++
	}

	// expenses arrive in date order so buckets already ascend
	for i := range points {
		points[i].Amount = points[i].Amount.Round(2)
	}
	if points == nil {
		points = []TrendPoint{}
	}

	return &Trends{Period: period, Data: points}, nil
}

func trendBucket(period string) (func(Date) Date, error) {
	switch period {
	case PeriodDaily:
		return func(d Date) Date { return d }, nil
	case PeriodWeekly:
		return weekStart, nil
	case PeriodMonthly:
		return func(d Date) Date { return NewDate(d.Year(), d.Month(), 1) }, nil
	}
	return nil, invalid("period", "must be one of %s, %s, %s", PeriodDaily, PeriodWeekly, PeriodMonthly)
}

// weekStart returns the Monday on or before d
func weekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return DateOf(d.AddDate(0, 0, -offset))
}

// subtractMonths moves back n calendar months, clamping to the last day of
// the target month
func subtractMonths(d Date, n int) Date {
	firstOfTarget := time.Date(d.Year(), d.Month()-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	return NewDate(firstOfTarget.Year(), firstOfTarget.Month(), min(d.Day(), lastDay))
}
