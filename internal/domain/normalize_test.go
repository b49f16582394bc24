package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  z6 iii  ", want: "z6 iii"},
		{name: "lowercase", input: "Nikon Z6 III", want: "nikon z6 iii"},
		{name: "compress multiple spaces", input: "rf   70-200", want: "rf 70-200"},
		{name: "tabs become one space", input: "a7\t\tiv", want: "a7 iv"},
		{name: "hyphens preserved", input: "AF-S 70-200", want: "af-s 70-200"},
		{name: "slashes preserved", input: "f/2.8", want: "f/2.8"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Z6III", want: "z6iii"},
		{input: "Z6 III", want: "z6iii"},
		{input: "Z 6 III", want: "z6iii"},
		{input: "z6-iii", want: "z6iii"},
		{input: "RF 70-200mm F2.8 L IS USM", want: "rf70200mmf28lisusm"},
		{input: "EF_50mm__f/1.8", want: "ef50mmf/18"},
		{input: " -_. ", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSearch(tt.input); got != tt.want {
				t.Errorf("NormalizeSearch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSearch_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Nikon Z6 III", "  Sony a7 IV ", "AF-S NIKKOR 70-200mm f/2.8E FL ED VR",
		"Fujifilm X-T5", "ÉCLAIR 16", "__..--", "",
	}
	for _, in := range inputs {
		once := NormalizeSearch(in)
		if twice := NormalizeSearch(once); twice != once {
			t.Errorf("NormalizeSearch not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeBrandAgnostic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		brand string
		want  string
	}{
		{name: "brand removed", input: "Nikon Z6III", brand: "Nikon", want: "z6iii"},
		{name: "brand case ignored", input: "NIKON Z6 III", brand: "nikon", want: "z6iii"},
		{name: "no brand", input: "Nikon Z6 III", brand: "", want: "nikonz6iii"},
		{name: "brand absent from name", input: "Z6 III", brand: "Nikon", want: "z6iii"},
		{name: "multi word brand", input: "Phase One XF IQ4", brand: "Phase One", want: "xfiq4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeBrandAgnostic(tt.input, tt.brand); got != tt.want {
				t.Errorf("NormalizeBrandAgnostic(%q, %q) = %q, want %q", tt.input, tt.brand, got, tt.want)
			}
		})
	}
}
