package parser

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultCategory  = "General"
	fieldDelimiter   = "\t"
	minFieldsPerLine = 2
)

// LineRecord is one candidate menu item taken from a delimited text line.
type LineRecord struct {
	Code     string
	Name     string
	Price    float64
	Category string
}

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ParseLines yields one record per usable line of text. Blank lines and lines
// with fewer than two fields are skipped. The sequence re-reads text on every
// iteration, so it can be ranged over any number of times.
func ParseLines(text string) iter.Seq[LineRecord] {
	return func(yield func(LineRecord) bool) {
		rest := text
		for len(rest) > 0 {
			var line string
			line, rest, _ = strings.Cut(rest, "\n")

			record, ok := parseLine(line)
			if !ok {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

func parseLine(line string) (LineRecord, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return LineRecord{}, false
	}

	fields := strings.Split(line, fieldDelimiter)
	if len(fields) < minFieldsPerLine {
		return LineRecord{}, false
	}

	record := LineRecord{
		Code:     strings.TrimSpace(fields[0]),
		Name:     strings.TrimSpace(fields[1]),
		Category: DefaultCategory,
	}
	if len(fields) > 2 {
		record.Price = parsePrice(fields[2])
	}
	if len(fields) > 3 {
		if category := strings.TrimSpace(fields[3]); category != "" {
			record.Category = category
		}
	}
	return record, true
}

func parsePrice(raw string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}
