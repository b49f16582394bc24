package extractor

import "strings"

// Stopwords is a set of lowercase words dropped from candidate windows.
type Stopwords map[string]struct{}

// NewStopwords builds a set from a word list.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// DefaultStopwords returns a copy of the built-in stopword set.
func DefaultStopwords() Stopwords {
	out := make(Stopwords, len(defaultStopwords))
	for w := range defaultStopwords {
		out[w] = struct{}{}
	}
	return out
}

func isStopword(lower string, set Stopwords) bool {
	_, ok := set[lower]
	return ok
}

// Function words, chat filler and generic product nouns.
var defaultStopwords = NewStopwords(
	"a", "an", "the", "and", "or", "but", "nor", "so", "if", "then", "than",
	"of", "to", "in", "on", "at", "by", "for", "from", "with", "without", "about",
	"into", "onto", "over", "under", "between", "vs", "versus", "via", "per",
	"i", "me", "my", "mine", "you", "your", "we", "our", "they", "their", "he",
	"she", "it", "its", "this", "that", "these", "those", "there", "here",
	"is", "am", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "done", "have", "has", "had", "having",
	"can", "could", "will", "would", "should", "shall", "may", "might", "must",
	"not", "no", "yes", "yeah", "yep", "nope", "ok", "okay",
	"what", "which", "who", "whom", "whose", "when", "where", "why", "how",
	"any", "anyone", "anybody", "anything", "someone", "somebody", "something",
	"all", "some", "each", "every", "both", "either", "neither", "other", "another",
	"just", "really", "very", "quite", "pretty", "also", "too", "still", "yet",
	"already", "even", "only", "much", "many", "more", "most", "less", "least",
	"good", "great", "nice", "best", "better", "worth", "bad", "worse",
	"think", "thinking", "thought", "thoughts", "opinion", "opinions",
	"tried", "try", "trying", "use", "used", "using", "own", "owns", "owned",
	"buy", "buying", "bought", "get", "getting", "got", "want", "wanted",
	"need", "needed", "looking", "look", "recommend", "recommendation",
	"hey", "hi", "hello", "thanks", "thank", "please", "lol", "guys", "folks",
	"like", "love", "hate", "prefer", "new", "old", "used",
	"lens", "lenses", "camera", "cameras", "body", "bodies", "kit",
	"m", "s", "t", "ve", "ll", "d", "re",
	"don", "doesn", "didn", "isn", "wasn", "aren", "won", "haven", "couldn", "wouldn", "shouldn",
)
