package feed

import (
	"strings"
)

// scanner.go holds the structural scanning the extractor runs over the raw
// wire page. The page is not parsed as HTML; the scanner only understands
// the narrow subset of markers the wire actually emits: the record container
// boundaries, span/div class markers inside a block, and <br> line breaks.

const (
	blockMarker  = "telegraph-content-box"
	footerMarker = "subject-bottom-box"

	closeDiv = "</div>"
)

// token is one markup tag encountered by the scanner.
type token struct {
	name    string // lowercase tag name
	closing bool
	class   string // raw class attribute value, "" when absent
	start   int    // offset of '<'
	end     int    // offset just past '>'
}

// scanBlocks splits the raw document into self-contained record blocks.
// A block opens at the tag carrying the container marker and runs through
// the footer container's closing tag plus the immediately following closing
// tag of the block itself.
func scanBlocks(doc string) []string {
	var out []string

	pos := 0
	for {
		i := strings.Index(doc[pos:], blockMarker)
		if i < 0 {
			break
		}
		i += pos

		start := strings.LastIndexByte(doc[:i], '<')
		if start < 0 {
			pos = i + len(blockMarker)
			continue
		}

		j := strings.Index(doc[i:], footerMarker)
		if j < 0 {
			break
		}
		j += i

		end := blockEnd(doc, j)
		if end < 0 {
			break
		}

		out = append(out, doc[start:end])
		pos = end
	}

	return out
}

// blockEnd finds the first "</div>" after pos that is followed, across
// whitespace only, by another "</div>", and returns the offset past the
// second one. That double close is the block boundary signature.
func blockEnd(doc string, pos int) int {
	for {
		k := strings.Index(doc[pos:], closeDiv)
		if k < 0 {
			return -1
		}
		k += pos + len(closeDiv)

		rest := strings.TrimLeft(doc[k:], " \t\r\n")
		if strings.HasPrefix(rest, closeDiv) {
			skipped := len(doc[k:]) - len(rest)
			return k + skipped + len(closeDiv)
		}

		pos = k
	}
}

// nextToken scans for the next parseable tag at or after pos.
func nextToken(s string, pos int) (token, bool) {
	for {
		lt := strings.IndexByte(s[pos:], '<')
		if lt < 0 {
			return token{}, false
		}
		start := pos + lt

		gt := strings.IndexByte(s[start:], '>')
		if gt < 0 {
			return token{}, false
		}
		end := start + gt + 1

		tok, ok := parseTag(s[start+1 : end-1])
		if !ok {
			// comment, doctype or stray '<'
			pos = start + 1
			continue
		}

		tok.start = start
		tok.end = end
		return tok, true
	}
}

func parseTag(raw string) (token, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '!' || raw[0] == '?' {
		return token{}, false
	}

	var t token
	if raw[0] == '/' {
		t.closing = true
		raw = strings.TrimSpace(raw[1:])
	}

	i := 0
	for i < len(raw) && isAlnum(raw[i]) {
		i++
	}
	if i == 0 {
		return token{}, false
	}

	t.name = strings.ToLower(raw[:i])
	t.class = classAttr(raw[i:])
	return t, true
}

// classAttr pulls the value of a class attribute out of a tag's attribute
// text. Quoted and bare values are both accepted.
func classAttr(attrs string) string {
	lower := strings.ToLower(attrs)

	idx := 0
	for {
		j := strings.Index(lower[idx:], "class")
		if j < 0 {
			return ""
		}
		j += idx

		if j > 0 && isAlnum(lower[j-1]) {
			idx = j + len("class")
			continue
		}

		k := j + len("class")
		for k < len(attrs) && attrs[k] == ' ' {
			k++
		}
		if k >= len(attrs) || attrs[k] != '=' {
			idx = j + len("class")
			continue
		}
		k++
		for k < len(attrs) && attrs[k] == ' ' {
			k++
		}
		if k >= len(attrs) {
			return ""
		}

		if attrs[k] == '"' || attrs[k] == '\'' {
			quote := attrs[k]
			if end := strings.IndexByte(attrs[k+1:], quote); end >= 0 {
				return attrs[k+1 : k+1+end]
			}
			return attrs[k+1:]
		}

		end := k
		for end < len(attrs) && attrs[end] != ' ' {
			end++
		}
		return attrs[k:end]
	}
}

// findInner returns the inner markup of the first element with the given
// name accepted by the class predicate. The inner span runs to the
// element's first closing tag; the wire keeps these containers flat.
func findInner(s, name string, classMatch func(string) bool) (string, bool) {
	pos := 0
	for {
		tok, ok := nextToken(s, pos)
		if !ok {
			return "", false
		}
		pos = tok.end

		if tok.closing || tok.name != name || !classMatch(tok.class) {
			continue
		}

		rest := s[tok.end:]
		if idx := strings.Index(strings.ToLower(rest), "</"+name+">"); idx >= 0 {
			return rest[:idx], true
		}
		return "", false
	}
}

// hasSpanClass reports whether any span in the markup carries the exact
// class token.
func hasSpanClass(s, class string) bool {
	pos := 0
	for {
		tok, ok := nextToken(s, pos)
		if !ok {
			return false
		}
		pos = tok.end

		if tok.closing || tok.name != "span" {
			continue
		}
		if hasClassToken(tok.class, class) {
			return true
		}
	}
}

func hasClassToken(classAttr, want string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == want {
			return true
		}
	}
	return false
}

// cleanMarkup flattens body markup to plain text: <br> variants become
// newlines, every other tag is dropped, runs of horizontal whitespace
// collapse to a single space. Newlines survive so the title/body split can
// still see line structure.
func cleanMarkup(s string) string {
	var b strings.Builder

	pos := 0
	for {
		tok, ok := nextToken(s, pos)
		if !ok {
			b.WriteString(s[pos:])
			break
		}
		b.WriteString(s[pos:tok.start])
		if tok.name == "br" {
			b.WriteByte('\n')
		}
		pos = tok.end
	}

	return strings.TrimSpace(collapseSpaces(b.String()))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
			inRun = false
		case r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == 0x3000:
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
		default:
			b.WriteRune(r)
			inRun = false
		}
	}

	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
