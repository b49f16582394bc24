package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate string
		brand     string
		want      float64
	}{
		{
			name:      "range aperture and mount mark",
			candidate: "rf 70-200 f2.8",
			want:      5.7, // 1.5 range + 1.2 f-number + 0.4 qualifier + 2.0 combined + 0.6 length
		},
		{
			name:      "lone f-number",
			candidate: "f2.8",
			want:      -0.8,
		},
		{
			name:      "lone focal length",
			candidate: "50mm",
			want:      -1.0,
		},
		{
			name:      "lone model code",
			candidate: "a7iv",
			want:      0.5,
		},
		{
			name:      "brand first",
			candidate: "Sony a7iv",
			brand:     "Sony",
			want:      2.55, // 1.0 mixed + 0.3 length + 1.0 brand + 0.25 first
		},
		{
			name:      "brand match is case-insensitive",
			candidate: "sony a7iv",
			brand:     "Sony",
			want:      2.55,
		},
		{
			name:      "run of model codes",
			candidate: "R5 R6 A7IV",
			want:      -1.2, // 1.0 mixed + 0.3 capped length - 2.5 run
		},
		{
			name:      "full lens name with qualifiers capped",
			candidate: "Sigma 35mm f/1.4 DG HSM Art",
			brand:     "Sigma",
			want:      7.85,
		},
		{
			name:      "short roman numeral",
			candidate: "iii",
			want:      -0.2,
		},
		{
			name:      "focal range with mm suffix alone",
			candidate: "70-200mm",
			want:      1.5,
		},
		{
			name:      "lowercase art is a word",
			candidate: "art 50mm",
			want:      1.3,
		},
		{
			name:      "capitalized Art is a line mark",
			candidate: "Art 50mm",
			want:      2.7,
		},
		{
			name:      "empty",
			candidate: "",
			want:      -0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Score(tt.candidate, tt.brand), 1e-9)
		})
	}
}

func TestWeights_Score_Overrides(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	w.LoneSpecPenalty = 0

	assert.InDelta(t, 1.2, w.Score("f2.8", ""), 1e-9)
	assert.InDelta(t, -0.8, Score("f2.8", ""), 1e-9)
}

func TestExtractFeatures(t *testing.T) {
	t.Parallel()

	f := extractFeatures("Canon EF 24-70mm f/2.8L II USM", "Canon")

	assert.Equal(t, 7, f.tokens)
	assert.True(t, f.focalRange)
	assert.True(t, f.mm)
	assert.False(t, f.fNumber, "f/2.8L carries a letter and counts as a model code")
	assert.Equal(t, 1, f.mixed)
	assert.True(t, f.roman)
	assert.Equal(t, 2, f.qualifiers)
	assert.True(t, f.hasBrand)
	assert.True(t, f.brandFirst)
	assert.Equal(t, 5, f.signalFamilies())
}
