package dotosu

// DefaultHitSample is stored when a hit object omits its hit-sample column.
const DefaultHitSample = "0:0:0:0:"

// Section wraps a decoded section record. Present is false when the section
// header never appeared in the source, which is different from a section that
// appeared with every field defaulted.
type Section[T any] struct {
	Value   T
	Present bool
}

// Get returns the decoded record and whether the section was present.
func (s Section[T]) Get() (T, bool) { return s.Value, s.Present }

func present[T any](v T) Section[T] { return Section[T]{Value: v, Present: true} }

// Beatmap is the parsed form of one .osu file. It is not modified after
// Decode returns.
type Beatmap struct {
	Path          string
	FormatVersion int

	General      Section[GeneralData]
	Editor       Section[EditorData]
	Metadata     Section[MetaData]
	Difficulty   Section[DifficultyData]
	TimingPoints Section[TimingPointsData]
	Colours      Section[ColoursData]
	HitObjects   Section[HitObjectData]

	// Warnings lists every recoverable decode problem in input order.
	Warnings []*FieldError
}

type GameMode int

const (
	ModeOsu GameMode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

func (m GameMode) String() string {
	switch m {
	case ModeOsu:
		return "osu"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "fruits"
	case ModeMania:
		return "mania"
	}
	return "unknown"
}

type GeneralData struct {
	AudioFilename            string
	AudioLeadIn              int
	AudioHash                string // deprecated
	PreviewTime              int
	Countdown                int
	SampleSet                string // Normal, Soft or Drum
	StackLeniency            float64
	Mode                     GameMode
	LetterboxInBreaks        bool
	StoryFireInFront         bool // deprecated
	UseSkinSprites           bool
	AlwaysShowPlayfield      bool   // deprecated
	OverlayPosition          string // NoChange, Below or Above
	SkinPreference           string
	EpilepsyWarning          bool
	CountdownOffset          int
	SpecialStyle             bool
	WidescreenStoryboard     bool
	SamplesMatchPlaybackRate bool
}

// NewGeneralData returns a GeneralData holding the format defaults.
func NewGeneralData() GeneralData {
	return GeneralData{
		AudioFilename:    "audio.mp3",
		AudioHash:        "example_hash",
		PreviewTime:      -1,
		Countdown:        1,
		SampleSet:        "Normal",
		StackLeniency:    0.7,
		Mode:             ModeOsu,
		StoryFireInFront: true,
		OverlayPosition:  "NoChange",
		SkinPreference:   "default",
	}
}

type EditorData struct {
	Bookmarks       []int
	DistanceSpacing float64
	BeatDivisor     int
	GridSize        int
	TimelineZoom    float64
}

func NewEditorData() EditorData {
	return EditorData{
		Bookmarks:    []int{},
		BeatDivisor:  1,
		GridSize:     1,
		TimelineZoom: 1,
	}
}

type MetaData struct {
	Title, TitleUnicode   string
	Artist, ArtistUnicode string
	Creator               string
	Version               string // difficulty name
	Source                string
	Tags                  []string
	BeatmapID             int
	BeatmapSetID          int
}

// NewMetaData fills the text fields with placeholders so an unset title
// stays recognisable after export.
func NewMetaData() MetaData {
	return MetaData{
		Title:         "title_placeholder",
		TitleUnicode:  "title_unicode_placeholder",
		Artist:        "artist_placeholder",
		ArtistUnicode: "artist_unicode_placeholder",
		Creator:       "creator_placeholder",
		Version:       "version_placeholder",
		Source:        "source_placeholder",
		Tags:          []string{},
		BeatmapID:     -1,
		BeatmapSetID:  -1,
	}
}

type DifficultyData struct {
	HPDrainRate       float64
	CircleSize        float64
	OverallDifficulty float64
	ApproachRate      float64
	SliderMultiplier  float64
	SliderTickRate    float64
}

func NewDifficultyData() DifficultyData {
	return DifficultyData{
		HPDrainRate:       5,
		CircleSize:        5,
		OverallDifficulty: 5,
		ApproachRate:      5,
		SliderMultiplier:  1,
		SliderTickRate:    1,
	}
}

type TimingPointNode struct {
	Time        int
	BeatLength  float64
	Meter       int
	SampleSet   int
	SampleIndex int
	Volume      int
	// Uninherited is true for any non-empty column text, "0" included.
	// Files in the wild depend on this reading, so it is kept as is.
	Uninherited bool
	Effects     int
}

// TimingPointsData keeps timing points in file order; later points override
// earlier ones during playback.
type TimingPointsData struct {
	Points []TimingPointNode
}

func (d TimingPointsData) Len() int                 { return len(d.Points) }
func (d TimingPointsData) At(i int) TimingPointNode { return d.Points[i] }

// Colour is an RGB triple with an optional alpha component.
type Colour struct {
	R, G, B  int
	A        int
	HasAlpha bool
}

type ColoursData struct {
	Combo map[string]Colour
}

type HitObjectNode struct {
	X, Y     int
	Time     int
	Type     int // bit 0 circle, 1 slider, 3 spinner, 7 hold
	HitSound int
	// ObjectParams is the raw type-specific column; nil when the line had
	// fewer than six fields. See ParseObjectParams.
	ObjectParams *string
	HitSample    string
	// Params holds every column from the sixth on, verbatim. Sliders spread
	// their parameters over more columns than ObjectParams and HitSample
	// cover; ParseObjectParams reads them from here.
	Params []string
}

// HitObjectData keeps hit objects in file order.
type HitObjectData struct {
	Objects []HitObjectNode
}

func (d HitObjectData) Len() int               { return len(d.Objects) }
func (d HitObjectData) At(i int) HitObjectNode { return d.Objects[i] }
