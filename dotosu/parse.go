package dotosu

import (
	"fmt"
	"io"
	"os"
	"slices"
)

// sectionDecoders maps a header name to the decoder that stores its result on
// the beatmap. Assigning rather than merging gives last-write-wins when a
// section repeats.
var sectionDecoders = map[string]func(*Beatmap, []sourceLine, warnFunc){
	sectionGeneral: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.General = present(decodeGeneral(lines, warn))
	},
	sectionEditor: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.Editor = present(decodeEditor(lines, warn))
	},
	sectionMetadata: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.Metadata = present(decodeMetadata(lines, warn))
	},
	sectionDifficulty: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.Difficulty = present(decodeDifficulty(lines, warn))
	},
	sectionTimingPoints: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.TimingPoints = present(decodeTimingPoints(lines, warn))
	},
	sectionColours: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.Colours = present(decodeColours(lines, warn))
	},
	sectionHitObjects: func(b *Beatmap, lines []sourceLine, warn warnFunc) {
		b.HitObjects = present(decodeHitObjects(lines, warn))
	},
}

// DecodeFile opens path and decodes it. The file is closed before return.
func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads a .osu stream in one pass. name is recorded as Beatmap.Path.
// Malformed values never fail the call; they are collected in
// Beatmap.Warnings. The only errors are ErrUnreadableSource ones.
func Decode(r io.Reader, name string) (*Beatmap, error) {
	b := &Beatmap{Path: name}
	warn := func(e *FieldError) { b.Warnings = append(b.Warnings, e) }

	c := newClassifier(r)
	for {
		g, ok := c.Next()
		if !ok {
			break
		}
		if decode, known := sectionDecoders[g.name]; known {
			// Warnings from a replaced block no longer describe the result.
			b.Warnings = slices.DeleteFunc(b.Warnings, func(w *FieldError) bool { return w.Section == g.name })
			decode(b, g.lines, warn)
		}
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	b.FormatVersion = c.version
	return b, nil
}
