package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// BundleLine is the structured form of a "<qty>x <label>" string.
type BundleLine struct {
	Label string
	Qty   int
	Note  *string
}

var bundleQtyPrefix = regexp.MustCompile(`(?is)^(\d+)x\s+(.+)$`)

// ParseBundleLine never fails: strings without a quantity prefix become a
// single unit of the whole trimmed text.
func ParseBundleLine(raw string) BundleLine {
	if match := bundleQtyPrefix.FindStringSubmatch(raw); match != nil {
		if qty, err := strconv.Atoi(match[1]); err == nil && qty >= 1 {
			return BundleLine{Label: strings.TrimSpace(match[2]), Qty: qty}
		}
	}
	return BundleLine{Label: strings.TrimSpace(raw), Qty: 1}
}

// FormatBundleLine renders a line back into its free-text form.
func FormatBundleLine(label string, qty int) string {
	if qty == 1 {
		return label
	}
	return strconv.Itoa(qty) + "x " + label
}
