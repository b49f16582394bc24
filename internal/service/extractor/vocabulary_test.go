package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

func TestVocabulary_Contains(t *testing.T) {
	t.Parallel()

	v := NewVocabulary([]domain.Brand{
		{Name: "Fujifilm", Slug: "fujifilm"},
		{Name: "Phase One", Slug: "phase-one"},
		{Name: "OM System", Slug: "om-system"},
	})

	tests := []struct {
		token string
		want  bool
	}{
		{"fujifilm", true},
		{"FUJIFILM", true},
		{"Fuji-film", true},
		{"phase", true},
		{"one", false},
		{"om", false},
		{"system", false},
		{"OM-System", true},
		{"phase-one", true},
		{"canon", false},
		{"--", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, v.Contains(tt.token))
		})
	}
}

func TestVocabulary_Detect(t *testing.T) {
	t.Parallel()

	v := NewVocabulary([]domain.Brand{{Name: "Canon", Slug: "canon"}, {Name: "Sigma", Slug: "sigma"}})

	brand, ok := v.Detect([]string{"the", "SIGMA", "for", "Canon"})
	require.True(t, ok)
	assert.Equal(t, "SIGMA", brand)

	_, ok = v.Detect([]string{"no", "brand", "here"})
	assert.False(t, ok)
}

func TestDefaultVocabulary(t *testing.T) {
	t.Parallel()

	v := DefaultVocabulary()
	assert.Same(t, v, DefaultVocabulary())
	assert.True(t, v.Contains("Nikon"))
	assert.True(t, v.Contains("voigtlander"))
	assert.True(t, v.Contains("Hasselblad"))
	assert.False(t, v.Contains("lens"))
}

func TestParseBrands(t *testing.T) {
	t.Parallel()

	in := `
- name: Phase One
- name: "  "
- name: Leica
  slug: leica-camera
`
	brands, err := ParseBrands(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.Brand{
		{Name: "Phase One", Slug: "phase-one"},
		{Name: "Leica", Slug: "leica-camera"},
	}, brands)

	brands, err = ParseBrands(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, brands)

	_, err = ParseBrands(strings.NewReader("name: [unterminated"))
	assert.Error(t, err)
}

func TestLoadBrandsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "brands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Godox\n"), 0o600))

	brands, err := LoadBrandsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Brand{{Name: "Godox", Slug: "godox"}}, brands)

	_, err = LoadBrandsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "phase-one", Slugify("Phase One"))
	assert.Equal(t, "7artisans", Slugify("7Artisans"))
	assert.Equal(t, "blackmagic-design", Slugify("  Blackmagic  Design "))
	assert.Equal(t, "", Slugify("--"))
}
