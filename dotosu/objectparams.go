package dotosu

import (
	"fmt"
	"strings"
)

// Decoding of the type-specific hit object columns and of the timing point
// effect bits. Decode never calls into this file; consumers that need slider
// shapes or end times ask for them per object.

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k ObjectKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	case KindHold:
		return "hold"
	}
	return "unknown"
}

type HitObjectTypeFlags int

const (
	TypeCircle     HitObjectTypeFlags = 1 << iota // 1
	TypeSlider                                    // 2
	TypeNewCombo                                  // 4
	TypeSpinner                                   // 8
	TypeComboSkip1                                // 16
	TypeComboSkip2                                // 32
	TypeComboSkip3                                // 64
	TypeHold       HitObjectTypeFlags = 1 << 7    // 128
)

type HitSoundFlags uint8

const (
	HitSoundNormal HitSoundFlags = 1 << iota
	HitSoundWhistle
	HitSoundFinish
	HitSoundClap
)

type SampleSet uint8

const (
	SampleNone SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

const (
	EffectKiai             = 1 << 0
	EffectOmitFirstBarLine = 1 << 3
)

// Kiai reports whether kiai time is enabled from this point on.
func (tp TimingPointNode) Kiai() bool { return tp.Effects&EffectKiai != 0 }

func (tp TimingPointNode) OmitFirstBarLine() bool { return tp.Effects&EffectOmitFirstBarLine != 0 }

func (h HitObjectNode) Flags() HitObjectTypeFlags { return HitObjectTypeFlags(h.Type) }

func (h HitObjectNode) NewCombo() bool { return h.Flags()&TypeNewCombo != 0 }

// Kind picks the object kind from the type bits. Hold wins over spinner,
// spinner over slider, matching how the game resolves conflicting bits.
func (h HitObjectNode) Kind() ObjectKind {
	f := h.Flags()
	switch {
	case f&TypeHold != 0:
		return KindHold
	case f&TypeSpinner != 0:
		return KindSpinner
	case f&TypeSlider != 0:
		return KindSlider
	}
	return KindCircle
}

type Vec2 struct{ X, Y int }

type HitSampleSpec struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

type EdgeAdd struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

type SliderPathType uint8

const (
	PathBezier SliderPathType = iota
	PathLinear
	PathCatmull
	PathPerfect
)

type SliderSegment struct {
	// Points of the segment including its start; the first segment starts at
	// the slider head.
	Points []Vec2
}

type SliderPath struct {
	Type     SliderPathType
	Segments []SliderSegment
}

type SliderParams struct {
	Path          SliderPath
	Slides        int
	Length        float64
	EdgeSounds    []HitSoundFlags
	EdgeAdditions []EdgeAdd
}

// ObjectParams is the decoded form of a hit object's trailing columns.
type ObjectParams struct {
	Kind    ObjectKind
	Sample  HitSampleSpec
	EndTime int           // spinners and holds
	Slider  *SliderParams // sliders only
}

// ParseObjectParams decodes h.Params according to h.Kind. Missing columns
// keep zero values; malformed numbers return an error wrapping
// ErrMalformedField.
func ParseObjectParams(h HitObjectNode) (ObjectParams, error) {
	col := func(i int) string {
		if i < len(h.Params) {
			return strings.TrimSpace(h.Params[i])
		}
		return ""
	}
	op := ObjectParams{Kind: h.Kind()}
	var err error
	switch op.Kind {
	case KindHold:
		// "endTime:normal:addition:index:volume:filename"
		end, sample, _ := strings.Cut(col(0), ":")
		if op.EndTime, err = optInt(end, 0); err != nil {
			return op, err
		}
		if sample != "" {
			op.Sample, err = ParseHitSample(sample)
		}
	case KindSpinner:
		if op.EndTime, err = optInt(col(0), 0); err != nil {
			return op, err
		}
		if col(1) != "" {
			op.Sample, err = ParseHitSample(col(1))
		}
	case KindSlider:
		op.Slider, err = parseSliderParams(Vec2{X: h.X, Y: h.Y}, col)
		if err == nil && col(5) != "" {
			op.Sample, err = ParseHitSample(col(5))
		}
	default:
		if col(0) != "" {
			op.Sample, err = ParseHitSample(col(0))
		}
	}
	return op, err
}

func parseSliderParams(head Vec2, col func(int) string) (*SliderParams, error) {
	path, err := ParseSliderPath(head, col(0))
	if err != nil {
		return nil, err
	}
	sp := &SliderParams{Path: path}
	if sp.Slides, err = optInt(col(1), 1); err != nil {
		return nil, err
	}
	if sp.Length, err = optFloat(col(2), 0); err != nil {
		return nil, err
	}
	if s := col(3); s != "" {
		for _, n := range strings.Split(s, "|") {
			v, err := optInt(n, 0)
			if err != nil {
				return nil, err
			}
			sp.EdgeSounds = append(sp.EdgeSounds, HitSoundFlags(v))
		}
	}
	if s := col(4); s != "" {
		for _, p := range strings.Split(s, "|") {
			normal, addition, _ := strings.Cut(p, ":")
			ns, err := optInt(normal, 0)
			if err != nil {
				return nil, err
			}
			as, err := optInt(addition, 0)
			if err != nil {
				return nil, err
			}
			sp.EdgeAdditions = append(sp.EdgeAdditions, EdgeAdd{NormalSet: toSampleSet(ns), AdditionSet: toSampleSet(as)})
		}
	}
	return sp, nil
}

// ParseHitSample decodes "normalSet:additionSet:index:volume:filename".
func ParseHitSample(s string) (HitSampleSpec, error) {
	parts := strings.Split(s, ":")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	var (
		nums [4]int
		err  error
	)
	for i := range nums {
		if nums[i], err = optInt(get(i), 0); err != nil {
			return HitSampleSpec{}, err
		}
	}
	return HitSampleSpec{
		NormalSet:   toSampleSet(nums[0]),
		AdditionSet: toSampleSet(nums[1]),
		Index:       nums[2],
		Volume:      nums[3],
		Filename:    strings.Trim(strings.TrimSpace(get(4)), "\""),
	}, nil
}

// ParseSliderPath converts "B|x:y|x:y|..." into a SliderPath. The head is
// the first point; Bezier paths split into segments where a control point
// repeats (a red anchor).
func ParseSliderPath(head Vec2, spec string) (SliderPath, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return SliderPath{Type: PathBezier, Segments: []SliderSegment{{Points: []Vec2{head}}}}, nil
	}
	typeStr, rest, _ := strings.Cut(spec, "|")

	var pType SliderPathType
	switch strings.ToUpper(strings.TrimSpace(typeStr)) {
	case "L":
		pType = PathLinear
	case "C":
		pType = PathCatmull
	case "P":
		pType = PathPerfect
	case "B":
		pType = PathBezier
	default:
		return SliderPath{}, fmt.Errorf("%w: unknown slider curve type %q", ErrMalformedField, typeStr)
	}

	var cps []Vec2
	if strings.TrimSpace(rest) != "" {
		for _, t := range strings.Split(rest, "|") {
			xs, ys, ok := strings.Cut(strings.TrimSpace(t), ":")
			if !ok {
				return SliderPath{}, fmt.Errorf("%w: control point %q", ErrMalformedField, t)
			}
			x, err := optInt(xs, head.X)
			if err != nil {
				return SliderPath{}, err
			}
			y, err := optInt(ys, head.Y)
			if err != nil {
				return SliderPath{}, err
			}
			cps = append(cps, Vec2{X: x, Y: y})
		}
	}

	switch pType {
	case PathPerfect:
		// A circular arc needs exactly three points; anything else is drawn
		// as a Bezier curve.
		if len(cps) != 2 {
			return bezierSegments(head, cps), nil
		}
		fallthrough
	case PathLinear, PathCatmull:
		return SliderPath{Type: pType, Segments: []SliderSegment{{Points: append([]Vec2{head}, cps...)}}}, nil
	}
	return bezierSegments(head, cps), nil
}

func bezierSegments(head Vec2, cps []Vec2) SliderPath {
	pts := append([]Vec2{head}, cps...)
	var segs []SliderSegment
	cur := []Vec2{pts[0]}
	for _, p := range pts[1:] {
		if p == cur[len(cur)-1] {
			if len(cur) >= 2 {
				segs = append(segs, SliderSegment{Points: cur})
			}
			cur = []Vec2{p}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) >= 2 {
		segs = append(segs, SliderSegment{Points: cur})
	}
	if len(segs) == 0 {
		segs = []SliderSegment{{Points: []Vec2{head, head}}}
	}
	return SliderPath{Type: PathBezier, Segments: segs}
}

func toSampleSet(id int) SampleSet {
	switch id {
	case 1:
		return SampleNormal
	case 2:
		return SampleSoft
	case 3:
		return SampleDrum
	}
	return SampleNone
}

// optInt parses s, returning def for an empty string.
func optInt(s string, def int) (int, error) {
	if s = strings.TrimSpace(s); s == "" {
		return def, nil
	}
	v, err := parseInt(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	return v, nil
}

func optFloat(s string, def float64) (float64, error) {
	if s = strings.TrimSpace(s); s == "" {
		return def, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	return v, nil
}
