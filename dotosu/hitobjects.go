package dotosu

import "strings"

const hitObjectFields = 5

func decodeHitObjects(lines []sourceLine, warn warnFunc) HitObjectData {
	d := HitObjectData{Objects: []HitObjectNode{}}
	for _, l := range lines {
		parts := strings.Split(l.text, ",")
		if len(parts) < hitObjectFields {
			continue
		}
		ho, err := parseHitObject(parts)
		if err != nil {
			warn(&FieldError{Section: sectionHitObjects, Line: l.num, Value: l.text, Err: err})
			continue
		}
		d.Objects = append(d.Objects, ho)
	}
	return d
}

// parseHitObject maps x,y,time,type,hitSound[,objectParams[,hitSample]].
// Columns past the seventh only reach Params.
func parseHitObject(parts []string) (HitObjectNode, error) {
	ho := HitObjectNode{HitSample: DefaultHitSample}
	for i, dst := range []*int{&ho.X, &ho.Y, &ho.Time, &ho.Type, &ho.HitSound} {
		v, err := parseInt(parts[i])
		if err != nil {
			return HitObjectNode{}, err
		}
		*dst = v
	}
	if len(parts) > 5 {
		params := parts[5]
		ho.ObjectParams = &params
		ho.Params = parts[5:]
	}
	if len(parts) > 6 {
		ho.HitSample = parts[6]
	}
	return ho, nil
}
