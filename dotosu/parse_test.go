package dotosu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMap = `osu file format v14

[General]
AudioFilename: audio.ogg
AudioLeadIn: 0
PreviewTime: 41123
Countdown: 0
SampleSet: Soft
StackLeniency: 0.4
Mode: 0
LetterboxInBreaks: 0
WidescreenStoryboard: 1

[Editor]
Bookmarks: 1200,5400,9800
DistanceSpacing: 1.2
BeatDivisor: 4
GridSize: 8
TimelineZoom: 1.5

[Metadata]
Title:Snow Drive
TitleUnicode:Snow Drive(01.23)
Artist:Omoi
ArtistUnicode:おもい
Creator:mapper
Version:Insane
Source:
Tags:vocaloid hatsune miku
BeatmapID:1234
BeatmapSetID:567

[Difficulty]
HPDrainRate:6
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.8
SliderTickRate:1

[Events]
//Background and Video events
0,0,"bg.jpg",0,0

[TimingPoints]
120,342.857142857143,4,2,1,60,1,0
5605,-100,4,2,1,60,0,1

[Colours]
Combo1 : 255,128,0
Combo2 : 0,202,0,128
SliderBorder : 255,255,255

[HitObjects]
256,192,120,5,0,0:0:0:0:
100,100,463,2,0,B|200:100|200:200,1,140,2|0,0:0|0:0,0:0:0:0:
256,192,1234,12,0,2000,0:0:0:0:
`

func decodeString(t *testing.T, s string) *Beatmap {
	t.Helper()
	b, err := Decode(strings.NewReader(s), "test.osu")
	require.NoError(t, err)
	return b
}

func TestDecodeFullMap(t *testing.T) {
	b := decodeString(t, sampleMap)

	assert.Equal(t, "test.osu", b.Path)
	assert.Equal(t, 14, b.FormatVersion)
	assert.Empty(t, b.Warnings)

	g, ok := b.General.Get()
	require.True(t, ok)
	assert.Equal(t, "audio.ogg", g.AudioFilename)
	assert.Equal(t, 41123, g.PreviewTime)
	assert.Equal(t, 0, g.Countdown)
	assert.Equal(t, "Soft", g.SampleSet)
	assert.InDelta(t, 0.4, g.StackLeniency, 1e-9)
	assert.Equal(t, ModeOsu, g.Mode)
	assert.True(t, g.WidescreenStoryboard)
	assert.False(t, g.LetterboxInBreaks)
	assert.True(t, g.StoryFireInFront)

	e, ok := b.Editor.Get()
	require.True(t, ok)
	assert.Equal(t, []int{1200, 5400, 9800}, e.Bookmarks)
	assert.Equal(t, 4, e.BeatDivisor)
	assert.Equal(t, 8, e.GridSize)
	assert.InDelta(t, 1.5, e.TimelineZoom, 1e-9)

	m, ok := b.Metadata.Get()
	require.True(t, ok)
	assert.Equal(t, "Snow Drive", m.Title)
	assert.Equal(t, "おもい", m.ArtistUnicode)
	assert.Equal(t, "", m.Source)
	assert.Equal(t, []string{"vocaloid", "hatsune", "miku"}, m.Tags)
	assert.Equal(t, 1234, m.BeatmapID)
	assert.Equal(t, 567, m.BeatmapSetID)

	d, ok := b.Difficulty.Get()
	require.True(t, ok)
	assert.Equal(t, DifficultyData{
		HPDrainRate: 6, CircleSize: 4, OverallDifficulty: 8, ApproachRate: 9,
		SliderMultiplier: 1.8, SliderTickRate: 1,
	}, d)

	tps, ok := b.TimingPoints.Get()
	require.True(t, ok)
	require.Equal(t, 2, tps.Len())
	assert.Equal(t, TimingPointNode{
		Time: 120, BeatLength: 342.857142857143, Meter: 4, SampleSet: 2,
		SampleIndex: 1, Volume: 60, Uninherited: true, Effects: 0,
	}, tps.At(0))
	assert.True(t, tps.At(1).Kiai())

	cs, ok := b.Colours.Get()
	require.True(t, ok)
	assert.Equal(t, map[string]Colour{
		"Combo1": {R: 255, G: 128, B: 0},
		"Combo2": {R: 0, G: 202, B: 0, A: 128, HasAlpha: true},
	}, cs.Combo)

	hos, ok := b.HitObjects.Get()
	require.True(t, ok)
	require.Equal(t, 3, hos.Len())
	circle := hos.At(0)
	require.NotNil(t, circle.ObjectParams)
	assert.Equal(t, "0:0:0:0:", *circle.ObjectParams)
	assert.Equal(t, DefaultHitSample, circle.HitSample)
	slider := hos.At(1)
	assert.Equal(t, "B|200:100|200:200", *slider.ObjectParams)
	assert.Equal(t, "1", slider.HitSample)
	assert.Len(t, slider.Params, 6)
}

func TestDecodeMinimalMap(t *testing.T) {
	b := decodeString(t, "[Metadata]\nTitle:Song\nTags:foo bar baz\n[TimingPoints]\n0,500.0,4,2,1,60,1,1\nbad,line\n")

	m, ok := b.Metadata.Get()
	require.True(t, ok)
	assert.Equal(t, "Song", m.Title)
	assert.Equal(t, []string{"foo", "bar", "baz"}, m.Tags)

	tps, ok := b.TimingPoints.Get()
	require.True(t, ok)
	require.Equal(t, 1, tps.Len())
	assert.Equal(t, 0, tps.At(0).Time)
	assert.Equal(t, 500.0, tps.At(0).BeatLength)
	// Two fields is a short row, so it is skipped without a warning.
	assert.Empty(t, b.Warnings)
}

func TestDecodeTagsSplitOnEverySpace(t *testing.T) {
	tags := func(value string) []string {
		return decodeString(t, "[Metadata]\nTags:"+value+"\n").Metadata.Value.Tags
	}
	assert.Equal(t, []string{""}, tags(""))
	assert.Equal(t, []string{"a", "", "b"}, tags("a  b"))
	assert.Equal(t, []string{}, decodeString(t, "[Metadata]\n").Metadata.Value.Tags)
}

func TestDecodeNoHeaders(t *testing.T) {
	for _, in := range []string{
		"",
		"osu file format v14\n",
		"Title: orphan\n0,500,4,2,1,60,1,0\n// comment\n\n",
	} {
		b := decodeString(t, in)
		assert.False(t, b.General.Present)
		assert.False(t, b.Editor.Present)
		assert.False(t, b.Metadata.Present)
		assert.False(t, b.Difficulty.Present)
		assert.False(t, b.TimingPoints.Present)
		assert.False(t, b.Colours.Present)
		assert.False(t, b.HitObjects.Present)
	}
}

func TestDecodeEmptySectionsUseDefaults(t *testing.T) {
	b := decodeString(t, "[General]\n[Editor]\n[Metadata]\n[Difficulty]\n[TimingPoints]\n[Colours]\n[HitObjects]\n")

	assert.Equal(t, present(NewGeneralData()), b.General)
	assert.Equal(t, present(NewEditorData()), b.Editor)
	assert.Equal(t, present(NewMetaData()), b.Metadata)

	m := b.Metadata.Value
	assert.Equal(t, "title_placeholder", m.Title)
	assert.Equal(t, "title_unicode_placeholder", m.TitleUnicode)
	assert.Equal(t, "artist_placeholder", m.Artist)
	assert.Equal(t, "artist_unicode_placeholder", m.ArtistUnicode)
	assert.Equal(t, "creator_placeholder", m.Creator)
	assert.Equal(t, "version_placeholder", m.Version)
	assert.Equal(t, "source_placeholder", m.Source)
	assert.Equal(t, -1, m.BeatmapID)

	d, ok := b.Difficulty.Get()
	require.True(t, ok)
	assert.Equal(t, 5.0, d.HPDrainRate)
	assert.Equal(t, 5.0, d.CircleSize)
	assert.Equal(t, 5.0, d.OverallDifficulty)
	assert.Equal(t, 5.0, d.ApproachRate)
	assert.Equal(t, 1.0, d.SliderMultiplier)
	assert.Equal(t, 1.0, d.SliderTickRate)

	g := b.General.Value
	assert.Equal(t, "audio.mp3", g.AudioFilename)
	assert.Equal(t, -1, g.PreviewTime)
	assert.Equal(t, 1, g.Countdown)
	assert.Equal(t, "Normal", g.SampleSet)
	assert.Equal(t, 0.7, g.StackLeniency)
	assert.Equal(t, "example_hash", g.AudioHash)
	assert.Equal(t, "default", g.SkinPreference)

	assert.True(t, b.TimingPoints.Present)
	assert.Zero(t, b.TimingPoints.Value.Len())
	assert.True(t, b.Colours.Present)
	assert.Empty(t, b.Colours.Value.Combo)
	assert.True(t, b.HitObjects.Present)
	assert.Zero(t, b.HitObjects.Value.Len())
}

func TestDecodeRepeatedSectionLastWins(t *testing.T) {
	b := decodeString(t, "[Metadata]\nTitle: A\nArtist: first\n[General]\nMode: 1\n[Metadata]\nTitle: B\n")

	m, ok := b.Metadata.Get()
	require.True(t, ok)
	assert.Equal(t, "B", m.Title)
	// The second block replaces the first wholesale.
	assert.Equal(t, "artist_placeholder", m.Artist)
	assert.Equal(t, ModeTaiko, b.General.Value.Mode)
}

func TestDecodeRepeatedSectionDropsReplacedWarnings(t *testing.T) {
	b := decodeString(t, "[Metadata]\nBeatmapID: x\n[Difficulty]\nCircleSize: big\n[Metadata]\nBeatmapID: 5\n")

	assert.Equal(t, 5, b.Metadata.Value.BeatmapID)
	require.Len(t, b.Warnings, 1)
	assert.Equal(t, "Difficulty", b.Warnings[0].Section)
	assert.Equal(t, "CircleSize", b.Warnings[0].Key)
}

func TestDecodeUnknownSectionIgnored(t *testing.T) {
	b := decodeString(t, "[Events]\nTitle: nope\n[Fancy]\n1,2,3\n[Difficulty]\nCircleSize: 3\n")
	assert.False(t, b.Metadata.Present)
	assert.Equal(t, 3.0, b.Difficulty.Value.CircleSize)
	assert.Empty(t, b.Warnings)
}

func TestDecodeSectionNamesAreCaseSensitive(t *testing.T) {
	b := decodeString(t, "[metadata]\nTitle: lower\n[ Metadata ]\nTitle: padded\n")
	assert.False(t, b.Metadata.Present)
}

func TestDecodeMalformedKeyKeepsDefault(t *testing.T) {
	b := decodeString(t, "[General]\nAudioLeadIn: soon\nPreviewTime: 100\nMode: 7\n[Difficulty]\nHPDrainRate: high\n[Editor]\nBookmarks: 1,x,3\n")

	assert.Equal(t, 0, b.General.Value.AudioLeadIn)
	assert.Equal(t, 100, b.General.Value.PreviewTime)
	assert.Equal(t, ModeOsu, b.General.Value.Mode)
	assert.Equal(t, 5.0, b.Difficulty.Value.HPDrainRate)
	assert.Equal(t, []int{}, b.Editor.Value.Bookmarks)

	require.Len(t, b.Warnings, 4)
	for _, w := range b.Warnings {
		assert.ErrorIs(t, w, ErrMalformedField)
	}
	assert.Equal(t, "General", b.Warnings[0].Section)
	assert.Equal(t, "AudioLeadIn", b.Warnings[0].Key)
	assert.Equal(t, 2, b.Warnings[0].Line)
	assert.Equal(t, "Mode", b.Warnings[1].Key)
}

func TestDecodeBooleanConvention(t *testing.T) {
	b := decodeString(t, "[General]\nLetterboxInBreaks: 2\nStoryFireInFront: 0\nEpilepsyWarning: -1\nUseSkinSprites: yes\n")
	g := b.General.Value
	assert.True(t, g.LetterboxInBreaks)
	assert.False(t, g.StoryFireInFront)
	assert.True(t, g.EpilepsyWarning)
	assert.False(t, g.UseSkinSprites)
	require.Len(t, b.Warnings, 1)
}

func TestDecodeLinesWithoutColonSkipped(t *testing.T) {
	b := decodeString(t, "[Metadata]\nTitle Song\nCreator: someone : else\n[Colours]\nCombo1 255,0,0\n")
	assert.Equal(t, "title_placeholder", b.Metadata.Value.Title)
	assert.Equal(t, "someone : else", b.Metadata.Value.Creator)
	assert.Empty(t, b.Colours.Value.Combo)
	assert.Empty(t, b.Warnings)
}

func TestDecodeTimingPoints(t *testing.T) {
	b := decodeString(t, strings.Join([]string{
		"[TimingPoints]",
		"1000.75,500,4,2,1,60,1,0",
		"2000,-50,4,2,1,60,0,0",
		"3000,-50,4,2,1,60,,8",
		"4000,500,4,2,1,60,1",
		"5000,500,four,2,1,60,1,0",
		"6000,400,3,1,0,100,1,1,extra",
	}, "\n"))

	tps := b.TimingPoints.Value
	require.Equal(t, 4, tps.Len())
	assert.Equal(t, 1000, tps.At(0).Time)
	// Any non-empty text counts as uninherited, "0" included.
	assert.True(t, tps.At(1).Uninherited)
	assert.False(t, tps.At(2).Uninherited)
	assert.True(t, tps.At(2).OmitFirstBarLine())
	assert.Equal(t, 6000, tps.At(3).Time)

	require.Len(t, b.Warnings, 1)
	assert.Equal(t, "TimingPoints", b.Warnings[0].Section)
	assert.Equal(t, 6, b.Warnings[0].Line)
}

func TestDecodeShortRowsContributeNothing(t *testing.T) {
	b := decodeString(t, "[TimingPoints]\n0,500,4,2,1,60,1\n1\n[HitObjects]\n1,2,3,1\n256\n")
	assert.Zero(t, b.TimingPoints.Value.Len())
	assert.Zero(t, b.HitObjects.Value.Len())
	assert.Empty(t, b.Warnings)
}

func TestDecodeHitObjectsOrderAndOptionalColumns(t *testing.T) {
	b := decodeString(t, strings.Join([]string{
		"[HitObjects]",
		"10,20,300,1,0",
		"30,40,200,1,2,params",
		"x,40,250,1,0",
		"50,60,100,8,0,900,1:2:0:0:",
	}, "\n"))

	hos := b.HitObjects.Value
	require.Equal(t, 3, hos.Len())

	first := hos.At(0)
	assert.Equal(t, HitObjectNode{X: 10, Y: 20, Time: 300, Type: 1, HitSound: 0, HitSample: DefaultHitSample}, first)
	assert.Nil(t, first.ObjectParams)

	second := hos.At(1)
	require.NotNil(t, second.ObjectParams)
	assert.Equal(t, "params", *second.ObjectParams)
	assert.Equal(t, DefaultHitSample, second.HitSample)

	// File order is kept even though times are not sorted.
	third := hos.At(2)
	assert.Equal(t, 100, third.Time)
	assert.Equal(t, "1:2:0:0:", third.HitSample)

	require.Len(t, b.Warnings, 1)
	assert.ErrorIs(t, b.Warnings[0], ErrMalformedField)
}

func TestDecodeColours(t *testing.T) {
	b := decodeString(t, "[Colours]\nCombo1: 1,2,3\nCombo2: 1,2\nCombo3: a,b,c\nComboX : 9,9,9\nSliderTrackOverride: 1,1,1\n")
	assert.Equal(t, map[string]Colour{
		"Combo1": {R: 1, G: 2, B: 3},
		"ComboX": {R: 9, G: 9, B: 9},
	}, b.Colours.Value.Combo)
	require.Len(t, b.Warnings, 2)
	assert.Equal(t, "Combo2", b.Warnings[0].Key)
	assert.Equal(t, "Combo3", b.Warnings[1].Key)
}

func TestDecodeIsIdempotent(t *testing.T) {
	first := decodeString(t, sampleMap)
	second := decodeString(t, sampleMap)
	assert.Equal(t, first, second)
}

func TestDecodeStripsByteOrderMark(t *testing.T) {
	b := decodeString(t, "\ufeffosu file format v9\n[Metadata]\nTitle: bom\n")
	assert.Equal(t, 9, b.FormatVersion)
	assert.Equal(t, "bom", b.Metadata.Value.Title)
}

func TestDecodeInvalidUTF8IsUnreadable(t *testing.T) {
	_, err := Decode(strings.NewReader("[Metadata]\nTitle: \xff\xfe\xfd\n"), "bad.osu")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableSource)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDecodeReadErrorIsUnreadable(t *testing.T) {
	_, err := Decode(failingReader{}, "x.osu")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableSource)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.osu")
	require.NoError(t, os.WriteFile(path, []byte(sampleMap), 0o644))

	b, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, b.Path)
	assert.Equal(t, "Snow Drive", b.Metadata.Value.Title)

	_, err = DecodeFile(filepath.Join(dir, "missing.osu"))
	assert.ErrorIs(t, err, ErrUnreadableSource)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
