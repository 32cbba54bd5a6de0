package feed

import (
	"regexp"
	"strings"
	"unicode"
)

// ContentKey canonicalizes a record body for fuzzy cross-fetch matching.
// The exact fingerprint shifts whenever the upstream trims or expands the
// wording; the content key strips the volatile lead-in (timestamp, bracketed
// headline, agency dateline) so two renderings of the same story compare
// equal on their opening characters.
//
// Keys shorter than MinContentKeyRunes are too weak to match on and are
// ignored by the reconciler's fuzzy tiers.

const (
	MinContentKeyRunes   = 15
	contentKeyIndexRunes = 30

	openBracket  = "【"
	closeBracket = "】"
	wireDelim    = "电，"
)

var (
	timePrefixRe = regexp.MustCompile(`^\d{1,2}:\d{1,2}(:\d{1,2})?`)
	datelineRe   = regexp.MustCompile(`财联社\d+月\d+日电，`)
)

func ContentKey(body string) string {
	if body == "" {
		return ""
	}

	s := stripSpace(body)
	s = timePrefixRe.ReplaceAllString(s, "")

	// Bracketed headline at the start: the story proper follows the closing
	// bracket, minus an agency dateline if one leads it.
	if strings.HasPrefix(s, openBracket) {
		if _, after, found := strings.Cut(s, closeBracket); found && after != "" {
			return stripDateline(after)
		}
	}

	// Bare agency dateline: everything after the first wire delimiter.
	if _, after, found := strings.Cut(s, wireDelim); found && after != "" {
		return after
	}

	// Bracket pair further in: the lead-in before it is boilerplate. Prefer
	// the text after the closing bracket; fall back to the bracketed span
	// when nothing follows.
	if start := strings.Index(s, openBracket); start >= 0 {
		if inner, after, found := strings.Cut(s[start+len(openBracket):], closeBracket); found {
			if after != "" {
				return stripDateline(after)
			}
			if inner != "" {
				return inner
			}
		}
	}

	return s
}

func stripDateline(s string) string {
	if loc := datelineRe.FindStringIndex(s); loc != nil && loc[1] < len(s) {
		return s[loc[1]:]
	}
	return s
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// keyPrefix returns the first n runes of a content key.
func keyPrefix(key string, n int) string {
	runes := []rune(key)
	if len(runes) <= n {
		return key
	}
	return string(runes[:n])
}
