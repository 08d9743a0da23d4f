package dotosu

import (
	"errors"
	"math"
	"strings"
)

const timingPointFields = 8

// decodeTimingPoints reads time,beatLength,meter,sampleSet,sampleIndex,volume,
// uninherited,effects rows. Rows with fewer than eight fields are skipped
// without a warning; a row with a bad number is dropped with one.
func decodeTimingPoints(lines []sourceLine, warn warnFunc) TimingPointsData {
	d := TimingPointsData{Points: []TimingPointNode{}}
	for _, l := range lines {
		parts := strings.Split(l.text, ",")
		if len(parts) < timingPointFields {
			continue
		}
		tp, err := parseTimingPoint(parts)
		if err != nil {
			warn(&FieldError{Section: sectionTimingPoints, Line: l.num, Value: l.text, Err: err})
			continue
		}
		d.Points = append(d.Points, tp)
	}
	return d
}

func parseTimingPoint(parts []string) (TimingPointNode, error) {
	var (
		tp  TimingPointNode
		err error
	)
	// "1000.0" and "1000" are both accepted; the fraction is dropped.
	t, err := parseFloat(parts[0])
	if err != nil {
		return tp, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return tp, errors.New("time is not finite")
	}
	tp.Time = int(t)
	if tp.BeatLength, err = parseFloat(parts[1]); err != nil {
		return tp, err
	}
	ints := []struct {
		dst *int
		src string
	}{
		{&tp.Meter, parts[2]},
		{&tp.SampleSet, parts[3]},
		{&tp.SampleIndex, parts[4]},
		{&tp.Volume, parts[5]},
		{&tp.Effects, parts[7]},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(f.src); err != nil {
			return tp, err
		}
	}
	tp.Uninherited = parts[6] != ""
	return tp, nil
}
