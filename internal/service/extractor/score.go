package extractor

import (
	"strings"
	"unicode/utf8"
)

// Weights are the bonuses and penalties of the candidate scoring rules.
type Weights struct {
	FocalRange float64
	FNumber    float64
	MM         float64
	Mixed      float64
	Roman      float64

	PerQualifier float64
	QualifierCap float64

	// CombinedMany applies when 3+ signal families are present, CombinedTwo
	// when exactly 2 are.
	CombinedMany float64
	CombinedTwo  float64

	PerExtraToken      float64
	LengthCap          float64
	AmbiguousLengthCap float64

	BrandPresent float64
	BrandFirst   float64

	AmbiguousRunPenalty float64
	LoneSpecPenalty     float64
	LoneMixedPenalty    float64

	ShortPenalty float64
	ShortLen     int
}

// DefaultWeights returns the tuned scoring weights.
func DefaultWeights() Weights {
	return Weights{
		FocalRange: 1.5,
		FNumber:    1.2,
		MM:         1.0,
		Mixed:      1.0,
		Roman:      0.3,

		PerQualifier: 0.4,
		QualifierCap: 1.2,

		CombinedMany: 2.0,
		CombinedTwo:  1.0,

		PerExtraToken:      0.3,
		LengthCap:          1.2,
		AmbiguousLengthCap: 0.3,

		BrandPresent: 1.0,
		BrandFirst:   0.25,

		AmbiguousRunPenalty: -2.5,
		LoneSpecPenalty:     -2.0,
		LoneMixedPenalty:    -0.5,

		ShortPenalty: -0.5,
		ShortLen:     4,
	}
}

// features is everything the rules look at, computed once per candidate.
type features struct {
	tokens     int
	runes      int
	focalRange bool
	fNumber    bool
	mm         bool
	roman      bool
	mixed      int
	qualifiers int
	hasBrand   bool
	brandFirst bool
}

func extractFeatures(candidate, brand string) features {
	fields := strings.Fields(candidate)
	f := features{
		tokens: len(fields),
		runes:  utf8.RuneCountInString(candidate),
	}
	for i, tok := range fields {
		lower := strings.ToLower(tok)
		switch {
		case isFocalRange(lower):
			f.focalRange = true
			if isMM(lower) {
				f.mm = true
			}
		case isFNumber(lower):
			f.fNumber = true
		case isMM(lower):
			f.mm = true
		case isRoman(lower):
			f.roman = true
		case isMixedAlnum(lower):
			f.mixed++
		case isQualifier(tok):
			f.qualifiers++
		}
		if brand != "" && strings.EqualFold(tok, brand) {
			f.hasBrand = true
			if i == 0 {
				f.brandFirst = true
			}
		}
	}
	return f
}

// signalFamilies counts how many distinct kinds of gear evidence appear.
func (f features) signalFamilies() int {
	n := 0
	for _, present := range []bool{f.fNumber, f.mm, f.focalRange, f.roman, f.mixed > 0, f.qualifiers > 0} {
		if present {
			n++
		}
	}
	return n
}

// ambiguousRun is a string of model codes with no focal range or aperture to anchor
// it, e.g. "R5 R6 A7IV" lifted from a comparison list.
func (f features) ambiguousRun() bool {
	return f.mixed >= 2 && !f.focalRange && !f.fNumber
}

type rule struct {
	name  string
	apply func(f features, w Weights) float64
}

var rules = []rule{
	{"focal_range", func(f features, w Weights) float64 { return when(f.focalRange, w.FocalRange) }},
	{"f_number", func(f features, w Weights) float64 { return when(f.fNumber, w.FNumber) }},
	{"mm", func(f features, w Weights) float64 { return when(f.mm, w.MM) }},
	{"mixed_alnum", func(f features, w Weights) float64 { return when(f.mixed > 0, w.Mixed) }},
	{"roman", func(f features, w Weights) float64 { return when(f.roman, w.Roman) }},
	{"qualifiers", scoreQualifiers},
	{"combined_signals", scoreCombined},
	{"length", scoreLength},
	{"brand", scoreBrand},
	{"ambiguous_run", func(f features, w Weights) float64 { return when(f.ambiguousRun(), w.AmbiguousRunPenalty) }},
	{"single_token", scoreSingleToken},
	{"too_short", func(f features, w Weights) float64 { return when(f.runes < w.ShortLen, w.ShortPenalty) }},
}

func scoreQualifiers(f features, w Weights) float64 {
	return min(float64(f.qualifiers)*w.PerQualifier, w.QualifierCap)
}

func scoreCombined(f features, w Weights) float64 {
	switch n := f.signalFamilies(); {
	case n >= 3:
		return w.CombinedMany
	case n == 2:
		return w.CombinedTwo
	}
	return 0
}

func scoreLength(f features, w Weights) float64 {
	if f.tokens <= 1 {
		return 0
	}
	limit := w.LengthCap
	if f.ambiguousRun() {
		limit = w.AmbiguousLengthCap
	}
	return min(float64(f.tokens-1)*w.PerExtraToken, limit)
}

func scoreBrand(f features, w Weights) float64 {
	if !f.hasBrand {
		return 0
	}
	s := w.BrandPresent
	if f.brandFirst {
		s += w.BrandFirst
	}
	return s
}

func scoreSingleToken(f features, w Weights) float64 {
	if f.tokens != 1 {
		return 0
	}
	if f.fNumber || f.mm {
		return w.LoneSpecPenalty
	}
	return when(f.mixed > 0, w.LoneMixedPenalty)
}

func when(ok bool, v float64) float64 {
	if ok {
		return v
	}
	return 0
}

// Score rates how likely candidate is a gear model name. brand is the
// detected brand token or "" when none was found.
func (w Weights) Score(candidate, brand string) float64 {
	f := extractFeatures(candidate, brand)
	total := 0.0
	for _, r := range rules {
		total += r.apply(f, w)
	}
	return total
}

// Score rates candidate with DefaultWeights.
func Score(candidate, brand string) float64 {
	return DefaultWeights().Score(candidate, brand)
}
