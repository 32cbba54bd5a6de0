package feed

import (
	"strconv"
	"strings"
	"unicode"
)

const fingerprintMaxRunes = 100

// Fingerprint derives the content identity of a record from its text.
// The bit pattern is part of the identity contract: records persisted by
// older builds must keep their ids, so the cleaning rules and the 32-bit
// wraparound hash below must not change.
//
// Cleaning: drop whitespace and markup tags, keep only CJK ideographs
// (U+4E00..U+9FA5), ASCII letters and digits, lowercase, cap at 100 runes.
func Fingerprint(text string) string {
	cleaned := cleanForFingerprint(text)

	var hash int32
	for _, r := range cleaned {
		hash = hash*31 + int32(r)
	}

	return strconv.FormatInt(int64(hash), 36)
}

func cleanForFingerprint(text string) string {
	text = stripTags(text)

	var b strings.Builder
	count := 0
	for _, r := range text {
		var keep rune
		switch {
		case r >= 0x4E00 && r <= 0x9FA5:
			keep = r
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			keep = r
		case r >= 'A' && r <= 'Z':
			keep = unicode.ToLower(r)
		default:
			continue
		}
		b.WriteRune(keep)
		count++
		if count == fingerprintMaxRunes {
			break
		}
	}

	return b.String()
}

// stripTags removes anything between '<' and '>'. The fingerprint only needs
// tags gone, not parsed; an unterminated tag swallows the rest of the input,
// matching the historical behavior ids were minted under.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
