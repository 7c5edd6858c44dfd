package parse

import (
	"fmt"

	"ordersheet/internal"
)

// ParseContent runs segmentation and price resolution over one content cell,
// producing the order's delivery flag, its line items (ids unset) and all
// accumulated warnings.
func ParseContent(content string, r *Resolver, m Markers) (wantsDelivery bool, items []internal.ParsedItem, warnings []string) {
	segments, wantsDelivery, warnings := SegmentContent(content, m)

	for _, seg := range segments {
		name, price := r.Resolve(seg.Name)
		if price == nil {
			warnings = append(warnings, fmt.Sprintf("Missing price match for item: '%s'", name))
		}
		items = append(items, internal.ParsedItem{
			Name:     name,
			Quantity: seg.Quantity,
			Price:    price,
		})
	}
	return wantsDelivery, items, warnings
}
