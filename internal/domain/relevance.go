package domain

import "strings"

// SignalKind identifies one relevance signal. Substring kinds contribute
// their weight when the containment holds; similarity kinds contribute
// weight * similarity.
type SignalKind int

const (
	SignalRawSubstring SignalKind = iota + 1
	SignalNormalizedSubstring
	SignalBrandAgnosticSubstring
	SignalBrandAgnosticSimilarity
	SignalNormalizedSimilarity
	SignalRawSimilarity
)

func (k SignalKind) String() string {
	switch k {
	case SignalRawSubstring:
		return "raw_substring"
	case SignalNormalizedSubstring:
		return "normalized_substring"
	case SignalBrandAgnosticSubstring:
		return "brand_agnostic_substring"
	case SignalBrandAgnosticSimilarity:
		return "brand_agnostic_similarity"
	case SignalNormalizedSimilarity:
		return "normalized_similarity"
	case SignalRawSimilarity:
		return "raw_similarity"
	}
	return "unknown"
}

// IsSimilarity reports whether the signal scales a similarity score.
func (k SignalKind) IsSimilarity() bool {
	switch k {
	case SignalBrandAgnosticSimilarity, SignalNormalizedSimilarity, SignalRawSimilarity:
		return true
	}
	return false
}

// RelevanceSignal is one weighted entry of the relevance table.
type RelevanceSignal struct {
	Kind   SignalKind
	Weight float64
}

// RelevanceWeights holds the weight of each signal kind.
type RelevanceWeights struct {
	RawSubstring            float64
	NormalizedSubstring     float64
	BrandAgnosticSubstring  float64
	BrandAgnosticSimilarity float64
	NormalizedSimilarity    float64
	RawSimilarity           float64
}

// DefaultRelevanceWeights returns the tuned weights. The relevance score is
// bounded by the largest of them, 2.0.
func DefaultRelevanceWeights() RelevanceWeights {
	return RelevanceWeights{
		RawSubstring:            2.0,
		NormalizedSubstring:     1.8,
		BrandAgnosticSubstring:  1.0,
		BrandAgnosticSimilarity: 0.6,
		NormalizedSimilarity:    0.4,
		RawSimilarity:           0.3,
	}
}

// Signals expands the weights into the ordered signal table. Zero weights
// are dropped.
func (w RelevanceWeights) Signals() []RelevanceSignal {
	all := []RelevanceSignal{
		{Kind: SignalRawSubstring, Weight: w.RawSubstring},
		{Kind: SignalNormalizedSubstring, Weight: w.NormalizedSubstring},
		{Kind: SignalBrandAgnosticSubstring, Weight: w.BrandAgnosticSubstring},
		{Kind: SignalBrandAgnosticSimilarity, Weight: w.BrandAgnosticSimilarity},
		{Kind: SignalNormalizedSimilarity, Weight: w.NormalizedSimilarity},
		{Kind: SignalRawSimilarity, Weight: w.RawSimilarity},
	}
	out := all[:0]
	for _, s := range all {
		if s.Weight > 0 {
			out = append(out, s)
		}
	}
	return out
}

// signalInput holds the precomputed forms of one item/query pair.
type signalInput struct {
	raw      string // lowercased search name
	norm     string
	agnostic string
	query    string // raw query (already lowercased)
	normQ    string
}

func (s RelevanceSignal) score(in signalInput, sim Similarity) float64 {
	switch s.Kind {
	case SignalRawSubstring:
		return hit(strings.Contains(in.raw, in.query), s.Weight)
	case SignalNormalizedSubstring:
		return hit(strings.Contains(in.norm, in.normQ), s.Weight)
	case SignalBrandAgnosticSubstring:
		return hit(strings.Contains(in.agnostic, in.normQ), s.Weight)
	case SignalBrandAgnosticSimilarity:
		return sim.Similarity(in.agnostic, in.normQ) * s.Weight
	case SignalNormalizedSimilarity:
		return sim.Similarity(in.norm, in.normQ) * s.Weight
	case SignalRawSimilarity:
		return sim.Similarity(in.raw, in.query) * s.Weight
	}
	return 0
}

func hit(ok bool, weight float64) float64 {
	if ok {
		return weight
	}
	return 0
}
