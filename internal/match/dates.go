package match

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the period formats accepted on resume claims, tried in
// order. Bare years are handled separately in ParseYearMonth.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"January 2, 2006",
}

// ParseYearMonth parses a claimed period string into a year and month.
// A zero year or month means absent. The empty string and the literal
// "present" yield (0, 0), as does any string that cannot be parsed at all;
// a bare four-digit year yields (year, 0). It never fails.
func ParseYearMonth(s string) (year, month int) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "present") {
		return 0, 0
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), int(t.Month())
		}
	}
	if y, err := strconv.Atoi(s); err == nil && y >= 1000 && y <= 9999 {
		return y, 0
	}
	return 0, 0
}
