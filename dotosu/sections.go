package dotosu

import (
	"fmt"
	"strings"
)

const (
	sectionGeneral      = "General"
	sectionEditor       = "Editor"
	sectionMetadata     = "Metadata"
	sectionDifficulty   = "Difficulty"
	sectionTimingPoints = "TimingPoints"
	sectionColours      = "Colours"
	sectionHitObjects   = "HitObjects"
)

type warnFunc func(*FieldError)

// fieldSetter coerces one trimmed value into its field of T.
type fieldSetter[T any] func(*T, string) error

func stringField[T any](field func(*T) *string) fieldSetter[T] {
	return func(d *T, v string) error {
		*field(d) = v
		return nil
	}
}

func intField[T any](field func(*T) *int) fieldSetter[T] {
	return func(d *T, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(d) = n
		return nil
	}
}

func floatField[T any](field func(*T) *float64) fieldSetter[T] {
	return func(d *T, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		*field(d) = f
		return nil
	}
}

func boolField[T any](field func(*T) *bool) fieldSetter[T] {
	return func(d *T, v string) error {
		b, err := parseBoolInt(v)
		if err != nil {
			return err
		}
		*field(d) = b
		return nil
	}
}

var generalFields = map[string]fieldSetter[GeneralData]{
	"AudioFilename": stringField(func(d *GeneralData) *string { return &d.AudioFilename }),
	"AudioLeadIn":   intField(func(d *GeneralData) *int { return &d.AudioLeadIn }),
	"AudioHash":     stringField(func(d *GeneralData) *string { return &d.AudioHash }),
	"PreviewTime":   intField(func(d *GeneralData) *int { return &d.PreviewTime }),
	"Countdown":     intField(func(d *GeneralData) *int { return &d.Countdown }),
	"SampleSet":     stringField(func(d *GeneralData) *string { return &d.SampleSet }),
	"StackLeniency": floatField(func(d *GeneralData) *float64 { return &d.StackLeniency }),
	"Mode": func(d *GeneralData, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		if n < int(ModeOsu) || n > int(ModeMania) {
			return fmt.Errorf("game mode %d out of range", n)
		}
		d.Mode = GameMode(n)
		return nil
	},
	"LetterboxInBreaks":        boolField(func(d *GeneralData) *bool { return &d.LetterboxInBreaks }),
	"StoryFireInFront":         boolField(func(d *GeneralData) *bool { return &d.StoryFireInFront }),
	"UseSkinSprites":           boolField(func(d *GeneralData) *bool { return &d.UseSkinSprites }),
	"AlwaysShowPlayfield":      boolField(func(d *GeneralData) *bool { return &d.AlwaysShowPlayfield }),
	"OverlayPosition":          stringField(func(d *GeneralData) *string { return &d.OverlayPosition }),
	"SkinPreference":           stringField(func(d *GeneralData) *string { return &d.SkinPreference }),
	"EpilepsyWarning":          boolField(func(d *GeneralData) *bool { return &d.EpilepsyWarning }),
	"CountdownOffset":          intField(func(d *GeneralData) *int { return &d.CountdownOffset }),
	"SpecialStyle":             boolField(func(d *GeneralData) *bool { return &d.SpecialStyle }),
	"WidescreenStoryboard":     boolField(func(d *GeneralData) *bool { return &d.WidescreenStoryboard }),
	"SamplesMatchPlaybackRate": boolField(func(d *GeneralData) *bool { return &d.SamplesMatchPlaybackRate }),
}

var editorFields = map[string]fieldSetter[EditorData]{
	"Bookmarks": func(d *EditorData, v string) error {
		marks, err := parseIntList(v)
		if err != nil {
			return err
		}
		d.Bookmarks = marks
		return nil
	},
	"DistanceSpacing": floatField(func(d *EditorData) *float64 { return &d.DistanceSpacing }),
	"BeatDivisor":     intField(func(d *EditorData) *int { return &d.BeatDivisor }),
	"GridSize":        intField(func(d *EditorData) *int { return &d.GridSize }),
	"TimelineZoom":    floatField(func(d *EditorData) *float64 { return &d.TimelineZoom }),
}

var metadataFields = map[string]fieldSetter[MetaData]{
	"Title":         stringField(func(d *MetaData) *string { return &d.Title }),
	"TitleUnicode":  stringField(func(d *MetaData) *string { return &d.TitleUnicode }),
	"Artist":        stringField(func(d *MetaData) *string { return &d.Artist }),
	"ArtistUnicode": stringField(func(d *MetaData) *string { return &d.ArtistUnicode }),
	"Creator":       stringField(func(d *MetaData) *string { return &d.Creator }),
	"Version":       stringField(func(d *MetaData) *string { return &d.Version }),
	"Source":        stringField(func(d *MetaData) *string { return &d.Source }),
	// Tags are split on every single space with no escaping, so a tag cannot
	// contain a space and an empty value yields one empty tag.
	"Tags": func(d *MetaData, v string) error {
		d.Tags = strings.Split(v, " ")
		return nil
	},
	"BeatmapID":    intField(func(d *MetaData) *int { return &d.BeatmapID }),
	"BeatmapSetID": intField(func(d *MetaData) *int { return &d.BeatmapSetID }),
}

var difficultyFields = map[string]fieldSetter[DifficultyData]{
	"HPDrainRate":       floatField(func(d *DifficultyData) *float64 { return &d.HPDrainRate }),
	"CircleSize":        floatField(func(d *DifficultyData) *float64 { return &d.CircleSize }),
	"OverallDifficulty": floatField(func(d *DifficultyData) *float64 { return &d.OverallDifficulty }),
	"ApproachRate":      floatField(func(d *DifficultyData) *float64 { return &d.ApproachRate }),
	"SliderMultiplier":  floatField(func(d *DifficultyData) *float64 { return &d.SliderMultiplier }),
	"SliderTickRate":    floatField(func(d *DifficultyData) *float64 { return &d.SliderTickRate }),
}

// decodeKeyValues applies fields to every "Key: Value" line. Unknown keys and
// lines without a colon are skipped; a value that fails to coerce leaves the
// field at whatever it held and is reported through warn.
func decodeKeyValues[T any](section string, lines []sourceLine, d *T, fields map[string]fieldSetter[T], warn warnFunc) {
	for _, l := range lines {
		key, val, ok := splitKeyVal(l.text)
		if !ok {
			continue
		}
		set, known := fields[key]
		if !known {
			continue
		}
		if err := set(d, val); err != nil {
			warn(&FieldError{Section: section, Line: l.num, Key: key, Value: val, Err: err})
		}
	}
}

func decodeGeneral(lines []sourceLine, warn warnFunc) GeneralData {
	d := NewGeneralData()
	decodeKeyValues(sectionGeneral, lines, &d, generalFields, warn)
	return d
}

func decodeEditor(lines []sourceLine, warn warnFunc) EditorData {
	d := NewEditorData()
	decodeKeyValues(sectionEditor, lines, &d, editorFields, warn)
	return d
}

func decodeMetadata(lines []sourceLine, warn warnFunc) MetaData {
	d := NewMetaData()
	decodeKeyValues(sectionMetadata, lines, &d, metadataFields, warn)
	return d
}

func decodeDifficulty(lines []sourceLine, warn warnFunc) DifficultyData {
	d := NewDifficultyData()
	decodeKeyValues(sectionDifficulty, lines, &d, difficultyFields, warn)
	return d
}
