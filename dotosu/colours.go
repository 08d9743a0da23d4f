package dotosu

import (
	"fmt"
	"strings"
)

const comboPrefix = "Combo"

// decodeColours keeps "ComboN: r,g,b[,a]" lines. Other keys in the section
// (slider track overrides and the like) are ignored.
func decodeColours(lines []sourceLine, warn warnFunc) ColoursData {
	d := ColoursData{Combo: map[string]Colour{}}
	for _, l := range lines {
		key, val, ok := splitKeyVal(l.text)
		if !ok || !strings.HasPrefix(key, comboPrefix) {
			continue
		}
		c, err := parseColour(val)
		if err != nil {
			warn(&FieldError{Section: sectionColours, Line: l.num, Key: key, Value: val, Err: err})
			continue
		}
		d.Combo[key] = c
	}
	return d
}

func parseColour(s string) (Colour, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Colour{}, fmt.Errorf("want 3 or 4 components, got %d", len(parts))
	}
	var rgba [4]int
	for i, p := range parts {
		v, err := parseInt(p)
		if err != nil {
			return Colour{}, err
		}
		rgba[i] = v
	}
	return Colour{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3], HasAlpha: len(parts) == 4}, nil
}
