package feed

import (
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extractor turns the raw wire page into a batch of candidate records.
// One malformed block never aborts the rest of the document; blocks that
// fail a required step are logged and skipped.
type Extractor struct {
	source string
}

const (
	timeMarker    = "time"
	contentMarker = "content"

	// Mutually exclusive body style markers. The normal marker wins when a
	// block somehow carries both.
	normalStyleClass  = "c-34304b"
	flaggedStyleClass = "c-de0422"

	titleMaxRunes = 30
)

var (
	errNoTime     = errors.New("no time marker")
	errNoBody     = errors.New("no body marker")
	errEmptyBody  = errors.New("empty body text")
	errTickerOnly = errors.New("market ticker noise")
	errNoTitle    = errors.New("empty title or body")

	percentageRe = regexp.MustCompile(`^[+-]\d+\.\d+%$`)
	popularityRe = regexp.MustCompile(`阅(?:<!-- -->)?(\d+(?:\.\d+)?[Ww]?)`)
)

func NewExtractor(source string) *Extractor {
	return &Extractor{source: source}
}

// Run extracts all well-formed records from the document, resolving time
// labels against now.
func (e *Extractor) Run(doc string, now time.Time) []Record {
	blocks := scanBlocks(doc)

	records := make([]Record, 0, len(blocks))
	for i, block := range blocks {
		record, err := e.parseBlock(block, now)
		if err != nil {
			slog.Debug("Skipping wire block", "index", i, "reason", err)
			continue
		}
		records = append(records, record)
	}

	return records
}

func (e *Extractor) parseBlock(block string, now time.Time) (Record, error) {
	timeHTML, ok := findInner(block, "span", func(class string) bool {
		return strings.Contains(class, timeMarker)
	})
	if !ok {
		return Record{}, errNoTime
	}
	label := cleanMarkup(timeHTML)

	timestamp := now
	if resolved, ok := ResolveLabel(label, now); ok {
		timestamp = resolved
	}

	bodyHTML, ok := findInner(block, "div", func(class string) bool {
		return hasClassToken(class, contentMarker)
	})
	if !ok {
		return Record{}, errNoBody
	}

	// The normal style always overrides a flagged signal.
	normal := hasSpanClass(bodyHTML, normalStyleClass)
	flagged := !normal && hasSpanClass(bodyHTML, flaggedStyleClass)

	fullText := cleanMarkup(bodyHTML)
	if fullText == "" {
		return Record{}, errEmptyBody
	}
	if percentageRe.MatchString(fullText) {
		return Record{}, errTickerOnly
	}

	title, body := splitTitleBody(fullText)
	if title == "" || body == "" {
		return Record{}, errNoTitle
	}

	record := Record{
		ID:         Fingerprint(title + body),
		Timestamp:  timestamp,
		TimeLabel:  label,
		Title:      title,
		Body:       body,
		Source:     e.source,
		Popularity: parsePopularity(block),
		Flagged:    flagged,
	}
	if flagged {
		record.RawMarkup = bodyHTML
	}

	return record, nil
}

// splitTitleBody derives the title/body pair from the flattened block text.
// A leading bracketed headline is the title; otherwise the first of several
// lines is, and a single long line is truncated into one.
func splitTitleBody(fullText string) (string, string) {
	if strings.HasPrefix(fullText, openBracket) {
		if _, after, found := strings.Cut(fullText, closeBracket); found {
			end := len(fullText) - len(after)
			title := strings.TrimSpace(fullText[:end])
			body := strings.TrimSpace(after)
			if body == "" {
				body = title
			}
			return title, body
		}
	}

	var lines []string
	for _, line := range strings.Split(fullText, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	switch {
	case len(lines) > 1:
		return lines[0], strings.Join(lines[1:], "\n")
	case len(lines) == 1:
		line := lines[0]
		if runes := []rune(line); len(runes) > titleMaxRunes {
			return strings.TrimSpace(string(runes[:titleMaxRunes])) + "...", line
		}
		return line, line
	default:
		return "", ""
	}
}

// parsePopularity finds the view counter anywhere in the block. A "W"
// suffix is the upstream shorthand for 万 (×10,000); absence of the marker
// yields zero.
func parsePopularity(block string) int {
	m := popularityRe.FindStringSubmatch(block)
	if m == nil {
		return 0
	}

	value := m[1]
	if strings.HasSuffix(value, "W") || strings.HasSuffix(value, "w") {
		f, err := strconv.ParseFloat(value[:len(value)-1], 64)
		if err != nil {
			return 0
		}
		return int(f * 10000)
	}

	// Integer form; a bare decimal without the W suffix is truncated.
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
