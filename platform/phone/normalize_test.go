package phone

import "testing"

func TestNormalizeE164FormatsNationalNumbers(t *testing.T) {
	if got := NormalizeE164("06 12345678"); got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
}

func TestNormalizeE164KeepsInternationalNumbers(t *testing.T) {
	if got := NormalizeE164("+49 30 901820"); got != "+4930901820" {
		t.Fatalf("expected +4930901820, got %q", got)
	}
}

func TestNormalizeE164ReturnsTrimmedInputOnParseFailure(t *testing.T) {
	if got := NormalizeE164("  not-a-number "); got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
