package sheetsync

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// itemPattern matches one segment of an Items summary cell:
// "<name>" or "<name> (<size>)" followed by " x<quantity>". The size group
// is non-capturing; product breakdowns count by name only. A product name
// that itself ends in " x<digits>" will mis-parse — that ambiguity exists in
// historical sheets and is left alone so old reports keep their numbers.
var itemPattern = regexp.MustCompile(`^(.+?)(?:\s+\((?:[^)]+)\))?\s+x(\d+)$`)

// ItemCount is one entry of a product breakdown.
type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ParseItemSummary recovers per-product sold quantities from a
// human-readable Items cell. Segments that don't match the expected shape
// are skipped silently — hand-edited rows degrade by omission, never by
// error. The result is sorted by descending quantity; ties keep
// first-encountered order.
func ParseItemSummary(cell string) []ItemCount {
	totals := map[string]int{}
	var order []string

	for _, segment := range strings.Split(cell, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		m := itemPattern.FindStringSubmatch(segment)
		if m == nil {
			continue
		}

		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		name := m[1]
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += qty
	}

	counts := make([]ItemCount, 0, len(order))
	for _, name := range order {
		counts = append(counts, ItemCount{Name: name, Quantity: totals[name]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Quantity > counts[j].Quantity
	})

	return counts
}

var (
	isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashDate     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeDate reduces a date cell to canonical YYYY-MM-DD form. It accepts
// the canonical form itself (with or without a trailing time component) and
// slash-delimited M/D/YYYY. Anything else passes through unchanged, which
// makes it fail any equality match against a normalized query date — rows
// with unrecognized dates simply don't count, they don't error.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)

	if m := isoDatePrefix.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}

	return s
}
