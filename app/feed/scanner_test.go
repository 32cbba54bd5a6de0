package feed

import (
	"strings"
	"testing"
)

func TestScanBlocks(t *testing.T) {
	doc := `<html><body>` +
		`<div class="telegraph-content-box">first block<div class="subject-bottom-box">f1</div></div>` +
		`<p>interstitial noise</p>` +
		`<div class="telegraph-content-box">second block<div class="subject-bottom-box">f2</div>` + "\n" + `</div>` +
		`</body></html>`

	blocks := scanBlocks(doc)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0], "first block") || strings.Contains(blocks[0], "second block") {
		t.Errorf("Expected first block to be isolated, got %q", blocks[0])
	}
	if !strings.Contains(blocks[1], "second block") || strings.Contains(blocks[1], "interstitial") {
		t.Errorf("Expected second block to be isolated, got %q", blocks[1])
	}
}

func TestScanBlocks_UnterminatedBlock(t *testing.T) {
	doc := `<div class="telegraph-content-box">dangling, no footer`

	if blocks := scanBlocks(doc); len(blocks) != 0 {
		t.Errorf("Expected no blocks from unterminated markup, got %d", len(blocks))
	}
}

func TestFindInner(t *testing.T) {
	s := `<span class="time f-l">17:24:17</span><div class="content"><span>body</span></div>`

	inner, ok := findInner(s, "span", func(class string) bool {
		return strings.Contains(class, "time")
	})
	if !ok {
		t.Fatalf("Expected time span to be found")
	}
	if inner != "17:24:17" {
		t.Errorf("Expected inner text 17:24:17, got %q", inner)
	}

	inner, ok = findInner(s, "div", func(class string) bool {
		return hasClassToken(class, "content")
	})
	if !ok {
		t.Fatalf("Expected content div to be found")
	}
	if inner != "<span>body</span>" {
		t.Errorf("Expected inner markup, got %q", inner)
	}

	if _, ok := findInner(s, "div", func(class string) bool { return false }); ok {
		t.Errorf("Expected no match when predicate rejects everything")
	}
}

func TestHasClassToken(t *testing.T) {
	if !hasClassToken("content b-c-e6e7ea", "content") {
		t.Errorf("Expected exact token to match")
	}
	if hasClassToken("telegraph-content-box", "content") {
		t.Errorf("Expected substring of a larger token not to match")
	}
	if hasClassToken("", "content") {
		t.Errorf("Expected empty class attribute not to match")
	}
}

func TestHasSpanClass(t *testing.T) {
	s := `<span class="c-34304b f-w-b">text</span><div class="c-de0422">not a span</div>`

	if !hasSpanClass(s, "c-34304b") {
		t.Errorf("Expected span class to be detected")
	}
	if hasSpanClass(s, "c-de0422") {
		t.Errorf("Expected div class not to count as a span class")
	}
}

func TestCleanMarkup(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{`<span>plain</span>`, "plain"},
		{`line one<br>line two<br/>line three`, "line one\nline two\nline three"},
		{`  spaced   <b>out</b>  text  `, "spaced out text"},
		{"全角　空格", "全角 空格"},
		{``, ""},
	}

	for _, tc := range cases {
		if got := cleanMarkup(tc.in); got != tc.expected {
			t.Errorf("cleanMarkup(%q): expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestClassAttr(t *testing.T) {
	cases := []struct {
		attrs    string
		expected string
	}{
		{` class="time f-l"`, "time f-l"},
		{` class='single'`, "single"},
		{` class=bare id="x"`, "bare"},
		{` id="x"`, ""},
		{` subclass="nope"`, ""},
	}

	for _, tc := range cases {
		if got := classAttr(tc.attrs); got != tc.expected {
			t.Errorf("classAttr(%q): expected %q, got %q", tc.attrs, tc.expected, got)
		}
	}
}
