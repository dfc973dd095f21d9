package lexicon

import (
	"strconv"
	"strings"
)

// ParseAmount parses a user-written money or count token into a positive
// number. It tolerates thousands separators ("450,000"), an RM prefix, and a
// trailing "k" meaning ×1000 ("450k", "2.5k"). Unparseable or non-positive
// tokens return ok=false; callers treat that as a parse-miss, never an error.
func ParseAmount(token string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(token))
	s = strings.TrimPrefix(s, "rm")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	value *= multiplier
	if value <= 0 {
		return 0, false
	}
	return value, true
}

// ParseCount parses a small positive integer such as a bedroom count or
// family size. Values outside 1..20 are discarded as noise.
func ParseCount(token string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 1 || n > 20 {
		return 0, false
	}
	return n, true
}
