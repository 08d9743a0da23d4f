package export

import (
	"encoding/json"

	"osuindex/dotosu"
)

// Document is the JSON form of a parsed beatmap. Absent sections are left
// out; a present section with all defaults is written in full.
type Document struct {
	Path          string                   `json:"path"`
	FormatVersion int                      `json:"format_version,omitempty"`
	General       *dotosu.GeneralData      `json:"general,omitempty"`
	Editor        *dotosu.EditorData       `json:"editor,omitempty"`
	Metadata      *dotosu.MetaData         `json:"metadata,omitempty"`
	Difficulty    *dotosu.DifficultyData   `json:"difficulty,omitempty"`
	TimingPoints  []dotosu.TimingPointNode `json:"timing_points,omitempty"`
	Colours       map[string]dotosu.Colour `json:"colours,omitempty"`
	HitObjects    []dotosu.HitObjectNode   `json:"hit_objects,omitempty"`
	Warnings      []string                 `json:"warnings,omitempty"`
}

func sectionPtr[T any](s dotosu.Section[T]) *T {
	if v, ok := s.Get(); ok {
		return &v
	}
	return nil
}

func NewDocument(b *dotosu.Beatmap) Document {
	doc := Document{
		Path:          b.Path,
		FormatVersion: b.FormatVersion,
		General:       sectionPtr(b.General),
		Editor:        sectionPtr(b.Editor),
		Metadata:      sectionPtr(b.Metadata),
		Difficulty:    sectionPtr(b.Difficulty),
	}
	if tp, ok := b.TimingPoints.Get(); ok {
		doc.TimingPoints = tp.Points
	}
	if c, ok := b.Colours.Get(); ok {
		doc.Colours = c.Combo
	}
	if ho, ok := b.HitObjects.Get(); ok {
		doc.HitObjects = ho.Objects
	}
	for _, w := range b.Warnings {
		doc.Warnings = append(doc.Warnings, w.Error())
	}
	return doc
}

func Marshal(b *dotosu.Beatmap) ([]byte, error) {
	return json.MarshalIndent(NewDocument(b), "", "\t")
}
