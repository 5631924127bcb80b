package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/extraction"
)

const maxMerchantLength = 100

// ErrNotFound is returned when an expense does not exist
var ErrNotFound = errors.New("expense not found")

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Date is a calendar day encoded as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate returns the given day at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(extraction.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(extraction.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	*d = parsed
	return nil
}

// Expense is a recorded spending entry
type Expense struct {
	ID          string              `json:"id"`
	Merchant    string              `json:"merchant"`
	Amount      decimal.Decimal     `json:"amount"`
	Category    extraction.Category `json:"category"`
	Date        Date                `json:"date"`
	Notes       string              `json:"notes,omitempty"`
	ReceiptFile string              `json:"receipt_file,omitempty"`
	ContentType string              `json:"content_type,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Input holds the fields needed to create an expense.
// ReceiptFile links a file previously stored by a scan.
type Input struct {
	Merchant    string              `json:"merchant"`
	Amount      decimal.Decimal     `json:"amount"`
	Category    extraction.Category `json:"category"`
	Date        Date                `json:"date"`
	Notes       string              `json:"notes"`
	ReceiptFile string              `json:"receipt_file"`
	ContentType string              `json:"content_type"`
}

// Patch holds the fields to change on an existing expense; nil means unchanged
type Patch struct {
	Merchant *string              `json:"merchant"`
	Amount   *decimal.Decimal     `json:"amount"`
	Category *extraction.Category `json:"category"`
	Date     *Date                `json:"date"`
	Notes    *string              `json:"notes"`
}

// Filter narrows ListExpenses. Zero values match everything; dates are inclusive.
type Filter struct {
	Category  extraction.Category
	StartDate Date
	EndDate   Date
}

func (f Filter) matches(e *Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.StartDate.IsZero() && e.Date.Before(f.StartDate.Time) {
		return false
	}
	if !f.EndDate.IsZero() && e.Date.After(f.EndDate.Time) {
		return false
	}
	return true
}

func normalizeMerchant(m string) (string, error) {
	m = strings.TrimSpace(m)
	if n := utf8.RuneCountInString(m); n == 0 || n > maxMerchantLength {
		return "", invalid("merchant", "must be 1 to %d characters", maxMerchantLength)
	}
	return m, nil
}

func normalizeAmount(a decimal.Decimal) (decimal.Decimal, error) {
	if !a.IsPositive() {
		return decimal.Decimal{}, invalid("amount", "must be greater than zero")
	}
	return a.Round(2), nil
}

func normalizeCategory(c extraction.Category) (extraction.Category, error) {
	parsed, err := extraction.ParseCategory(string(c))
	if err != nil {
		return "", invalid("category", "%v", err)
	}
	return parsed, nil
}

func normalizeDate(d Date) (Date, error) {
	if d.IsZero() {
		return Date{}, invalid("date", "is required")
	}
	return DateOf(d.Time), nil
}

// validate normalizes in place and reports the first invalid field
func (in *Input) validate() error {
	var err error
	if in.Merchant, err = normalizeMerchant(in.Merchant); err != nil {
		return err
	}
	if in.Amount, err = normalizeAmount(in.Amount); err != nil {
		return err
	}
	if in.Category, err = normalizeCategory(in.Category); err != nil {
		return err
	}
	if in.Date, err = normalizeDate(in.Date); err != nil {
		return err
	}
	in.Notes = strings.TrimSpace(in.Notes)
	return nil
}

// apply validates the patch and writes its fields onto e
func (p Patch) apply(e *Expense) error {
	if p.Merchant != nil {
		m, err := normalizeMerchant(*p.Merchant)
		if err != nil {
			return err
		}
		e.Merchant = m
	}
	if p.Amount != nil {
		a, err := normalizeAmount(*p.Amount)
		if err != nil {
			return err
		}
		e.Amount = a
	}
	if p.Category != nil {
		c, err := normalizeCategory(*p.Category)
		if err != nil {
			return err
		}
		e.Category = c
	}
	if p.Date != nil {
		d, err := normalizeDate(*p.Date)
		if err != nil {
			return err
		}
		e.Date = d
	}
	if p.Notes != nil {
		e.Notes = strings.TrimSpace(*p.Notes)
	}
	return nil
}
