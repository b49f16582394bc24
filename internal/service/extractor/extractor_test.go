package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTop_LensQuestion(t *testing.T) {
	t.Parallel()

	e := New(nil)

	top, ok := e.ExtractTop("anyone tried the rf 70-200 f2.8 yet")
	require.True(t, ok)
	assert.Equal(t, "rf 70-200 f2.8", top)

	scored := e.ExtractScored("anyone tried the rf 70-200 f2.8 yet")
	require.NotEmpty(t, scored)
	assert.InDelta(t, 5.7, scored[0].Score, 1e-9)
}

func TestExtractScored_BrandedBody(t *testing.T) {
	t.Parallel()

	got := New(nil).ExtractScored("thoughts on the Nikon Z6 III?")

	want := []string{"Nikon Z6 III", "Nikon Z6", "Nikon III", "Z6", "III"}
	texts := make([]string, len(got))
	for i, c := range got {
		texts[i] = c.Text
	}
	assert.Equal(t, want, texts)
	assert.InDelta(t, 4.15, got[0].Score, 1e-9)
}

func TestExtract_NoCandidates(t *testing.T) {
	t.Parallel()

	e := New(nil)
	for _, msg := range []string{"", "   \t\n", "?!... --", "hello there, how are you?", "thoughts on sony?"} {
		got := e.Extract(msg)
		assert.NotNil(t, got, "message %q", msg)
		assert.Empty(t, got, "message %q", msg)

		_, ok := e.ExtractTop(msg)
		assert.False(t, ok, "message %q", msg)
	}
}

func TestExtract_EveryCandidateCarriesGearToken(t *testing.T) {
	t.Parallel()

	messages := []string{
		"anyone tried the rf 70-200 f2.8 yet",
		"is the sigma 18-35 f/1.8 art still worth it in 2024 or should i get something else",
		"so I just got my A7IV and honestly the kit lens is meh",
		"Between the Fuji XT5 and X-H2 which one would you pick for birds",
	}

	e := New(nil)
	for _, msg := range messages {
		for _, c := range e.Extract(msg) {
			hasGear := false
			for _, tok := range strings.Fields(c) {
				if isGearLike(strings.ToLower(tok)) {
					hasGear = true
					break
				}
			}
			assert.True(t, hasGear, "candidate %q from %q has no gear token", c, msg)
		}
	}
}

func TestExtract_BrandAugmentation(t *testing.T) {
	t.Parallel()

	e := New(nil, WithRadius(1), WithMaxCandidates(50))
	got := e.Extract("Sony is great but the a7iv rocks")

	assert.Contains(t, got, "a7iv rocks")
	assert.Contains(t, got, "a7iv")
	assert.Contains(t, got, "Sony a7iv rocks")
	assert.Contains(t, got, "Sony a7iv")

	for _, c := range got {
		if containsWord(c, "Sony") {
			continue
		}
		assert.Contains(t, got, "Sony "+c)
	}
}

func TestExtractScored_Ordering(t *testing.T) {
	t.Parallel()

	got := New(nil, WithMaxCandidates(50)).ExtractScored(
		"Canon R5 vs R6 II vs the Sony A1 with the 100-400mm f/4.5-5.6 GM OSS")
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		require.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.LessOrEqual(t, len([]rune(prev.Text)), len([]rune(cur.Text)))
		}
	}

	seen := map[string]bool{}
	for _, c := range got {
		k := strings.ToLower(c.Text)
		assert.False(t, seen[k], "duplicate candidate %q", c.Text)
		seen[k] = true
	}
}

func TestExtract_MaxCandidates(t *testing.T) {
	t.Parallel()

	msg := "R5 R6 R7 R8 R10 R50 R100 A1 A7IV A7CII Z8 Z9 Z6III"
	e := New(nil)

	assert.Len(t, e.Extract(msg, WithMaxCandidates(3)), 3)
	assert.LessOrEqual(t, len(e.Extract(msg)), DefaultMaxCandidates)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	e := New(nil)
	msg := "would the Tamron 28-75 G2 or Sigma 24-70 DG DN Art be better on an A7III"
	first := e.ExtractScored(msg)
	for range 5 {
		assert.Equal(t, first, e.ExtractScored(msg))
	}
}

func TestExtract_CustomStopwords(t *testing.T) {
	t.Parallel()

	e := New(nil)
	msg := "loving my X100V"

	top, ok := e.ExtractTop(msg)
	require.True(t, ok)
	assert.Equal(t, "loving X100V", top)

	top, ok = e.ExtractTop(msg, WithStopwords(NewStopwords("loving", "my")))
	require.True(t, ok)
	assert.Equal(t, "X100V", top)
}

func TestExtract_CallOptionsOverrideDefaults(t *testing.T) {
	t.Parallel()

	msg := "R5 R6 R7 R8 R10 R50"
	e := New(nil, WithMaxCandidates(2))

	assert.Len(t, e.Extract(msg), 2)
	assert.Len(t, e.Extract(msg, WithMaxCandidates(4)), 4)
}
