package share

import (
	"strconv"
	"strings"
)

const (
	// MinQuantity is the smallest quantity a new bottle request may carry.
	MinQuantity = 1
	// MaxQuantity caps the quantity of a single new bottle request.
	MaxQuantity = 12
)

// NormalizeIDList trims entries, drops empty ones, and deduplicates
// case-insensitively while preserving first-seen order. Idempotent:
// normalizing an already-normalized list yields the same list.
func NormalizeIDList(ids []string) []string {
	normalized := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	return normalized
}

// ParseVintage parses a vintage year. Invalid input reports ok=false, which
// causes the creation attempt to be dropped silently rather than failing
// the session.
func ParseVintage(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseQuantity parses a bottle quantity. Invalid input or anything below
// MinQuantity defaults to MinQuantity; values above MaxQuantity are clamped.
func ParseQuantity(s string) int {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return MinQuantity
	}
	return ClampQuantity(q)
}

// ClampQuantity clamps q into the [MinQuantity, MaxQuantity] range.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
