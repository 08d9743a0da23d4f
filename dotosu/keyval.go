package dotosu

import (
	"strconv"
	"strings"
)

// splitKeyVal splits on the first colon and trims both halves. ok is false
// when the line has no colon.
func splitKeyVal(line string) (key, val string, ok bool) {
	key, val, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(val), true
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseBoolInt reads the 0/non-zero convention used by the format's flags.
func parseBoolInt(s string) (bool, error) {
	v, err := parseInt(s)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// parseIntList reads a comma-separated integer list, skipping empty items.
func parseIntList(s string) ([]int, error) {
	out := []int{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		v, err := parseInt(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
