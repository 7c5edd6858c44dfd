package parse

import (
	"sort"
	"strings"

	"ordersheet/internal/util"
)

// Resolver maps segmented item names onto catalog unit prices: exact lookup
// on the normalized name first, then a substring fallback (catalog key inside
// the name, or the name inside a key). Among fallback matches the longest key
// wins; equal lengths break to the lexicographically smallest key so results
// are deterministic. A fallback hit snaps the name to the catalog spelling.
type Resolver struct {
	prices map[string]float64
	keys   []string
}

// NewResolver builds a resolver over a normalized-name to price map, such as
// the one ExtractCatalog returns. The catalog is never mutated.
func NewResolver(priceMap map[string]float64) *Resolver {
	prices := make(map[string]float64, len(priceMap))
	keys := make([]string, 0, len(priceMap))
	for k, v := range priceMap {
		norm := util.NormalizeName(k)
		prices[norm] = v
		keys = append(keys, norm)
	}

	sort.Slice(keys, func(i, j int) bool {
		li, lj := len([]rune(keys[i])), len([]rune(keys[j]))
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})

	return &Resolver{prices: prices, keys: keys}
}

// Resolve returns the canonical name and unit price for an item name. When no
// catalog entry matches, the name comes back unchanged and the price is nil.
func (r *Resolver) Resolve(name string) (string, *float64) {
	norm := util.NormalizeName(name)
	if price, ok := r.prices[norm]; ok {
		return norm, util.FloatPtr(price)
	}

	for _, key := range r.keys {
		if strings.Contains(norm, key) || strings.Contains(key, norm) {
			return key, util.FloatPtr(r.prices[key])
		}
	}
	return norm, nil
}
