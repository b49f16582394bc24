// Package extractor pulls likely camera and lens model names out of free-form
// chat text. It is a pure, deterministic heuristic: tokens that look like
// gear (model codes, focal ranges, apertures) seed small windows of nearby
// words, and each window is scored by a fixed set of rules.
package extractor

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultRadius        = 3
	DefaultMaxCandidates = 8
)

// Candidate is one scored extraction.
type Candidate struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Option configures an extraction.
type Option func(*options)

type options struct {
	radius        int
	maxCandidates int
	stopwords     Stopwords
	weights       Weights
}

// WithRadius sets how many tokens each side of a gear-like token join its
// window. Values below 1 are ignored.
func WithRadius(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.radius = n
		}
	}
}

// WithMaxCandidates caps the number of returned candidates. Values below 1
// are ignored.
func WithMaxCandidates(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCandidates = n
		}
	}
}

// WithStopwords replaces the stopword set.
func WithStopwords(s Stopwords) Option {
	return func(o *options) {
		if s != nil {
			o.stopwords = s
		}
	}
}

// WithWeights replaces the scoring weights.
func WithWeights(w Weights) Option {
	return func(o *options) {
		o.weights = w
	}
}

// Extractor finds gear model candidates in chat messages. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	vocab    *Vocabulary
	defaults []Option
}

// New creates an Extractor over a brand vocabulary. A nil vocabulary means
// DefaultVocabulary. opts become the defaults of every call.
func New(vocab *Vocabulary, opts ...Option) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Extractor{vocab: vocab, defaults: opts}
}

func (e *Extractor) resolve(opts []Option) options {
	o := options{
		radius:        DefaultRadius,
		maxCandidates: DefaultMaxCandidates,
		stopwords:     defaultStopwords,
		weights:       DefaultWeights(),
	}
	for _, opt := range e.defaults {
		opt(&o)
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Extract returns candidate strings, best first.
func (e *Extractor) Extract(message string, opts ...Option) []string {
	scored := e.ExtractScored(message, opts...)
	out := make([]string, len(scored))
	for i, c := range scored {
		out[i] = c.Text
	}
	return out
}

// ExtractTop returns the best candidate, or false when there is none.
func (e *Extractor) ExtractTop(message string, opts ...Option) (string, bool) {
	scored := e.ExtractScored(message, opts...)
	if len(scored) == 0 {
		return "", false
	}
	return scored[0].Text, true
}

// ExtractScored returns candidates with their scores, sorted by score
// descending, then by shorter text, then by first appearance.
func (e *Extractor) ExtractScored(message string, opts ...Option) []Candidate {
	o := e.resolve(opts)

	tokens := tokenize(message)
	if len(tokens) == 0 {
		return []Candidate{}
	}
	lower := make([]string, len(tokens))
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}

	brand, hasBrand := e.vocab.Detect(tokens)

	var raw []string
	for i := range tokens {
		if !isGearLike(lower[i]) {
			continue
		}
		raw = append(raw, e.window(tokens, lower, i, o), tokens[i])
	}

	if hasBrand {
		n := len(raw)
		for _, c := range raw[:n] {
			if !containsWord(c, brand) {
				raw = append(raw, brand+" "+c)
			}
		}
	}

	texts := dedupeFold(raw)
	candidates := make([]Candidate, len(texts))
	for i, t := range texts {
		candidates[i] = Candidate{Text: t, Score: o.weights.Score(t, brand)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return utf8.RuneCountInString(candidates[i].Text) < utf8.RuneCountInString(candidates[j].Text)
	})

	if len(candidates) > o.maxCandidates {
		candidates = candidates[:o.maxCandidates]
	}
	return candidates
}

// window joins the kept tokens within radius of center.
func (e *Extractor) window(tokens, lower []string, center int, o options) string {
	lo := max(0, center-o.radius)
	hi := min(len(tokens)-1, center+o.radius)

	kept := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		if e.keep(tokens[i], lower[i], o.stopwords) {
			kept = append(kept, tokens[i])
		}
	}
	return strings.Join(dedupeFold(kept), " ")
}

func (e *Extractor) keep(token, lower string, stop Stopwords) bool {
	return isGearLike(lower) ||
		isQualifier(token) ||
		e.vocab.Contains(token) ||
		!isStopword(lower, stop)
}

func containsWord(candidate, word string) bool {
	for _, f := range strings.Fields(candidate) {
		if strings.EqualFold(f, word) {
			return true
		}
	}
	return false
}

// dedupeFold drops case-insensitive repeats, keeping the first spelling.
func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
