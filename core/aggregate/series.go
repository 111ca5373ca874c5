package aggregate

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Total returns the sum of all point values.
func (s Series) Total() float64 {
	var total float64
	for _, p := range s {
		total += p.Value
	}
	return total
}

// Clone returns a copy of s that can be reordered independently.
func (s Series) Clone() Series {
	return slices.Clone(s)
}

// SortByValue orders s in place by value. Ties keep their current order.
func (s Series) SortByValue(desc bool) Series {
	sort.SliceStable(s, func(i, j int) bool {
		if desc {
			return s[i].Value > s[j].Value
		}
		return s[i].Value < s[j].Value
	})
	return s
}

// SortByName orders s in place by case-insensitive name.
func (s Series) SortByName() Series {
	sort.SliceStable(s, func(i, j int) bool {
		return strings.ToLower(s[i].Name) < strings.ToLower(s[j].Name)
	})
	return s
}

// SortChronological orders s in place by the instant its names parse to.
// Names that are not dates keep their relative order after the dated ones.
func (s Series) SortChronological() Series {
	keys := make(map[string]time.Time, len(s))
	for _, p := range s {
		if t, ok := dataset.ParseTime(p.Name); ok {
			keys[p.Name] = t
		}
	}
	sort.SliceStable(s, func(i, j int) bool {
		ti, iok := keys[s[i].Name]
		tj, jok := keys[s[j].Name]
		switch {
		case iok && jok:
			return ti.Before(tj)
		case iok:
			return true
		default:
			return false
		}
	})
	return s
}

// Top returns the first n points of s. n <= 0 returns s unchanged.
func (s Series) Top(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
