package feed

import (
	"strings"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("央行数据显示，2月个人住房新发放贷款利率约3.1%")
	b := Fingerprint("央行数据显示，2月个人住房新发放贷款利率约3.1%")

	if a != b {
		t.Errorf("Expected identical fingerprints, got %q and %q", a, b)
	}
}

func TestFingerprint_CleaningEquivalence(t *testing.T) {
	// Whitespace, markup tags, punctuation and case are all stripped before
	// hashing, so these variants must share one identity.
	base := Fingerprint("helloworld123")

	variants := []string{
		"Hello World 123",
		"HELLO\tWORLD\n123",
		"<b>hello</b> world<br/>123",
		"hello, world! 123?",
	}
	for _, v := range variants {
		if got := Fingerprint(v); got != base {
			t.Errorf("Expected %q to fingerprint as %q, got %q", v, base, got)
		}
	}
}

func TestFingerprint_CJKPreserved(t *testing.T) {
	if Fingerprint("央行数据") == Fingerprint("欧盟制裁") {
		t.Errorf("Expected distinct CJK inputs to produce distinct fingerprints")
	}
	if Fingerprint("央行：数据") != Fingerprint("央行数据") {
		t.Errorf("Expected punctuation to be stripped from CJK input")
	}
}

func TestFingerprint_Truncation(t *testing.T) {
	head := strings.Repeat("财", 100)

	a := Fingerprint(head)
	b := Fingerprint(head + "后续内容完全不同")
	if a != b {
		t.Errorf("Expected inputs identical in their first 100 runes to share a fingerprint")
	}

	c := Fingerprint(strings.Repeat("财", 99) + "经")
	if a == c {
		t.Errorf("Expected inputs differing within the first 100 runes to differ")
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	if got := Fingerprint(""); got != "0" {
		t.Errorf("Expected empty input to hash to \"0\", got %q", got)
	}
	if got := Fingerprint("  \n\t  "); got != "0" {
		t.Errorf("Expected whitespace-only input to hash to \"0\", got %q", got)
	}
}
