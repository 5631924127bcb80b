package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// UnknownMerchant is used when no header line looks like a merchant name.
// The confidence scorer relies on this exact value.
const UnknownMerchant = "Unknown Merchant"

const (
	merchantMaxLines  = 5
	merchantMinLength = 3
	merchantMaxLength = 100
)

var merchantDisallowed = regexp.MustCompile(`[^a-zA-Z0-9 &'-]`)

// MerchantExtractor picks the merchant name from the receipt header
type MerchantExtractor struct{}

// Extract returns the first mostly-uppercase line among the first five,
// sanitized, or UnknownMerchant. It never fails.
func (MerchantExtractor) Extract(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > merchantMaxLines {
		lines = lines[:merchantMaxLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len([]rune(line)) < merchantMinLength || !mostlyUppercase(line) {
			continue
		}
		merchant := strings.TrimSpace(merchantDisallowed.ReplaceAllString(line, ""))
		if len(merchant) > merchantMaxLength {
			merchant = strings.TrimSpace(merchant[:merchantMaxLength])
		}
		if merchant != "" {
			return merchant
		}
	}
	return UnknownMerchant
}

// mostlyUppercase reports whether more than half of the letters in s are uppercase
func mostlyUppercase(s string) bool {
	var letters, upper int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters > 0 && upper*2 > letters
}
