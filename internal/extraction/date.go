package extraction

import (
	"regexp"
	"time"
)

const minReceiptYear = 2000

// datePatterns are tried in priority order
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`), // MM/DD/YYYY
	regexp.MustCompile(`\d{2}-\d{2}-\d{4}`), // MM-DD-YYYY
	regexp.MustCompile(`\d{4}/\d{2}/\d{2}`), // YYYY/MM/DD
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), // YYYY-MM-DD
}

// dateLayouts mirror datePatterns
var dateLayouts = []string{
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"2006-01-02",
}

// DateExtractor finds the transaction date in recognized text
type DateExtractor struct {
	clock TimeSource
}

// NewDateExtractor returns an extractor that judges dates against clock
func NewDateExtractor(clock TimeSource) DateExtractor {
	if clock == nil {
		clock = defaultTimeSource{}
	}
	return DateExtractor{clock: clock}
}

// Extract returns the first plausible date in text, or today when none is
// found. A plausible date is not in the future and not before 2000.
func (d DateExtractor) Extract(text string) time.Time {
	now := today(d.clock)
	for _, pattern := range datePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		if date, ok := parsePlausibleDate(match, now); ok {
			return date
		}
	}
	return now
}

func parsePlausibleDate(s string, now time.Time) (time.Time, bool) {
	for _, layout := range dateLayouts {
		date, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if !date.After(now) && date.Year() >= minReceiptYear {
			return date, true
		}
	}
	return time.Time{}, false
}
