// Package seatmap derives a vehicle's seat layout from its capacity and label,
// and answers partner-seat lookups for the gender-adjacency rule. Layouts are
// deterministic: the same capacity and label always produce the same rows, so
// the server agrees with whatever map the purchaser selected seats on.
package seatmap

import (
	"fmt"
	"strings"
)

// VariantRules classifies a vehicle label into a body style. The keyword sets
// are matched as substrings of the lowercased label. The mapping is data, not
// code, so deployments with different fleets can swap it out.
type VariantRules struct {
	TravellerKeywords []string
	SUVKeywords       []string
	HatchKeywords     []string
	SedanKeywords     []string
}

var DefaultRules = VariantRules{
	TravellerKeywords: []string{"tempo", "traveller", "traveler", "van", "minibus", "bus"},
	SUVKeywords:       []string{"suv", "innova", "ertiga", "xuv", "scorpio", "fortuner"},
	HatchKeywords:     []string{"hatch", "swift", "i10", "i20", "alto", "polo"},
	SedanKeywords:     []string{"sedan", "etios", "dzire", "city", "verna", "amaze"},
}

type Layout struct {
	Variant string
	Rows    [][]string

	partner map[string]string
}

// Resolve builds the layout for a vehicle using DefaultRules.
func Resolve(capacity int, vehicleLabel string) *Layout {
	return ResolveWith(DefaultRules, capacity, vehicleLabel)
}

// ResolveWith builds the layout for a vehicle using the given rule table.
// Capacities below one are treated as a single seat.
func ResolveWith(rules VariantRules, capacity int, vehicleLabel string) *Layout {
	if capacity < 1 {
		capacity = 1
	}

	variant, pattern := resolveVariant(rules, capacity, vehicleLabel)
	rowCounts := fillPattern(pattern, capacity)

	rows := make([][]string, 0, len(rowCounts))
	assigned := 0
	for rowIdx, count := range rowCounts {
		row := make([]string, 0, count)
		for i := 0; i < count && assigned < capacity; i++ {
			row = append(row, fmt.Sprintf("%d%c", rowIdx+1, 'A'+i))
			assigned++
		}
		rows = append(rows, row)
	}

	l := &Layout{Variant: variant, Rows: rows}
	l.buildPartnerIndex()
	return l
}

// Partner returns the seat paired with the given one under the adjacency
// rule, or "" when the seat has no partner (single seats, row positions past
// the pairs, unknown seat ids).
func (l *Layout) Partner(seat string) string {
	return l.partner[seat]
}

// Has reports whether the seat id exists in the layout.
func (l *Layout) Has(seat string) bool {
	for _, row := range l.Rows {
		for _, s := range row {
			if s == seat {
				return true
			}
		}
	}
	return false
}

// Seats returns all seat ids in row order.
func (l *Layout) Seats() []string {
	out := make([]string, 0)
	for _, row := range l.Rows {
		out = append(out, row...)
	}
	return out
}

func resolveVariant(rules VariantRules, capacity int, label string) (string, []int) {
	lower := strings.ToLower(label)

	isTraveller := matchAny(lower, rules.TravellerKeywords)
	isSUV := matchAny(lower, rules.SUVKeywords)
	isHatch := matchAny(lower, rules.HatchKeywords)
	isSedan := matchAny(lower, rules.SedanKeywords)

	switch {
	case isTraveller || capacity >= 8:
		if capacity >= 10 {
			return "Traveller (10 Seater)", []int{2, 4, 4}
		}
		if capacity == 9 {
			return "Traveller (9 Seater)", []int{2, 3, 4}
		}
		return "Traveller", []int{2, 3, 3}
	case capacity == 7 || isSUV:
		return "SUV (7 Seater)", []int{2, 3, 2}
	case capacity == 6:
		return "SUV (6 Seater)", []int{2, 2, 2}
	case capacity == 5:
		return "Compact SUV (5 Seater)", []int{2, 3}
	case isHatch || capacity <= 4:
		return "Hatchback (4 Seater)", []int{2, 2}
	case isSedan:
		return "Sedan (4 Seater)", []int{2, 2}
	}
	return fmt.Sprintf("Car (%d Seater)", capacity), []int{2, 3}
}

// fillPattern expands a row pattern to cover the full capacity. When the
// pattern runs out, the last pattern entry repeats.
func fillPattern(pattern []int, total int) []int {
	rows := make([]int, 0, len(pattern))
	assigned := 0

	for _, count := range pattern {
		if assigned >= total {
			break
		}
		take := min(count, total-assigned)
		rows = append(rows, take)
		assigned += take
	}

	idx := 0
	for assigned < total {
		base := 3
		if len(pattern) > 0 {
			base = pattern[min(idx, len(pattern)-1)]
		}
		take := min(base, total-assigned)
		rows = append(rows, take)
		assigned += take
		idx++
	}

	return rows
}

// Pairing within a row: a 2-seat row pairs both seats; a 3-seat row leaves the
// first seat single and pairs the other two; wider rows split into (1,2) and
// (3,4) pairs across the aisle, anything past the fourth seat stays single.
func (l *Layout) buildPartnerIndex() {
	l.partner = make(map[string]string)
	for _, row := range l.Rows {
		switch {
		case len(row) == 2:
			l.partner[row[0]] = row[1]
			l.partner[row[1]] = row[0]
		case len(row) == 3:
			l.partner[row[1]] = row[2]
			l.partner[row[2]] = row[1]
		case len(row) >= 4:
			l.partner[row[0]] = row[1]
			l.partner[row[1]] = row[0]
			l.partner[row[2]] = row[3]
			l.partner[row[3]] = row[2]
		}
	}
}

func matchAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
