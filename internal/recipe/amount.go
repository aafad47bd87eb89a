package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount reads a quantity written as a decimal ("1.5"), a fraction
// ("1/2") or a whole number followed by a fraction ("1 1/2").
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return parseFraction(fields[0])
	case 2:
		whole, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		frac, err := parseFraction(fields[1])
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		return float64(whole) + frac, nil
	}
	return 0, fmt.Errorf("invalid amount %q", s)
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	d, err := strconv.ParseUint(den, 10, 32)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return float64(n) / float64(d), nil
}
