package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	focalRangeRe = regexp.MustCompile(`^\d{2,3}-\d{2,3}(?:mm)?$`)
	mmRe         = regexp.MustCompile(`^\d+(?:\.\d+)?(?:-\d+(?:\.\d+)?)?mm$`)
	fNumberRe    = regexp.MustCompile(`^f/?\d{1,2}(?:\.\d{1,2})?(?:-\d{1,2}(?:\.\d{1,2})?)?$`)
	bareNumberRe = regexp.MustCompile(`^\d{3,}$`)
)

// Single "i" is left out: it is the pronoun far more often than a model mark.
var romanNumerals = map[string]struct{}{
	"ii": {}, "iii": {}, "iv": {}, "v": {}, "vi": {}, "vii": {}, "viii": {}, "ix": {}, "x": {},
}

// qualifiers are mount, line and feature marks that belong to a model name.
var qualifiers = map[string]struct{}{
	"af": {}, "af-s": {}, "af-p": {}, "af-d": {}, "mf": {},
	"vr": {}, "is": {}, "oss": {}, "stm": {}, "usm": {}, "nano": {}, "pz": {},
	"gm": {}, "art": {}, "sport": {}, "contemporary": {}, "macro": {},
	"dc": {}, "dg": {}, "dn": {}, "os": {}, "hsm": {}, "apo": {}, "asph": {},
	"ed": {}, "fl": {}, "dx": {}, "fx": {}, "wr": {}, "lm": {}, "ois": {},
	"vc": {}, "usd": {}, "di": {}, "rxd": {}, "xd": {},
	"rf": {}, "rf-s": {}, "ef": {}, "ef-s": {}, "ef-m": {}, "fe": {},
	"xf": {}, "xc": {}, "gf": {}, "mft": {}, "l": {}, "g": {}, "z": {}, "s": {},
	"mark": {}, "mk": {},
}

// ambiguousQualifiers double as ordinary words or letters in chat and only
// count when written with a capital first letter ("Art", "IS", "L").
var ambiguousQualifiers = map[string]struct{}{
	"is": {}, "art": {}, "sport": {}, "os": {}, "di": {}, "ed": {},
	"l": {}, "g": {}, "z": {}, "s": {}, "mark": {},
}

func isFocalRange(lower string) bool { return focalRangeRe.MatchString(lower) }

func isMM(lower string) bool { return mmRe.MatchString(lower) }

func isFNumber(lower string) bool { return fNumberRe.MatchString(lower) }

func isRoman(lower string) bool {
	_, ok := romanNumerals[lower]
	return ok
}

// isMixedAlnum matches model codes such as "r6ii" or "a7c". Optical tokens that
// happen to mix letters and digits (f2.8, 50mm, 24-70mm) are not model codes.
func isMixedAlnum(lower string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return false
	}
	return !isFNumber(lower) && !isMM(lower) && !isFocalRange(lower)
}

func isGearLike(lower string) bool {
	return isMixedAlnum(lower) ||
		isRoman(lower) ||
		isFocalRange(lower) ||
		isMM(lower) ||
		isFNumber(lower) ||
		bareNumberRe.MatchString(lower)
}

// isQualifier takes the token as written; case matters for ambiguous marks.
func isQualifier(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := qualifiers[lower]; !ok {
		return false
	}
	if _, ambiguous := ambiguousQualifiers[lower]; ambiguous {
		r, _ := utf8.DecodeRuneInString(token)
		return unicode.IsUpper(r)
	}
	return true
}
