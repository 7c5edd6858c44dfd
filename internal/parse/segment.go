package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ordersheet/internal/util"
)

var (
	reSegmentSplit = regexp.MustCompile(`[，,]\s*`)
	reTrailingQty  = regexp.MustCompile(`x\s*(\d+)\s*$`)
)

// Segment is one comma-delimited clause of a content cell that carried an
// item: its whitespace-normalized name and trailing quantity.
type Segment struct {
	Name     string
	Quantity int
}

// SegmentContent splits one order's free-text content cell into item
// segments and a delivery flag. Clauses that restate the order total are
// dropped silently; clauses without a trailing "xN" quantity are dropped with
// a warning. Pure function of its input.
func SegmentContent(content string, m Markers) (segments []Segment, wantsDelivery bool, warnings []string) {
	for _, raw := range reSegmentSplit.Split(content, -1) {
		p := strings.Trim(strings.TrimSpace(raw), " ，,")
		if p == "" || (m.TotalPrice != "" && strings.Contains(p, m.TotalPrice)) {
			continue
		}

		if hasAnyPrefix(p, m.DeliveryPrefixes) {
			wantsDelivery = true
			continue
		}

		loc := reTrailingQty.FindStringSubmatchIndex(p)
		if loc == nil {
			warnings = append(warnings, fmt.Sprintf("Skipped segment without trailing quantity 'xN': %s", p))
			continue
		}

		qty, err := strconv.Atoi(p[loc[2]:loc[3]])
		if err != nil || qty <= 0 {
			warnings = append(warnings, fmt.Sprintf("Skipped segment without trailing quantity 'xN': %s", p))
			continue
		}

		segments = append(segments, Segment{
			Name:     util.NormalizeName(p[:loc[0]]),
			Quantity: qty,
		})
	}
	return segments, wantsDelivery, warnings
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
