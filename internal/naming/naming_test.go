package naming

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesTokens(t *testing.T) {
	got := Render("ticket-{num}", Replacements{Number: 42})
	if got != "ticket-0042" {
		t.Fatalf("expected ticket-0042, got %q", got)
	}

	got = Render("{category}-{username}-{num}", Replacements{
		Number:   7,
		Username: "steve",
		Category: "support",
	})
	if got != "support-steve-0007" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderIncrementAlias(t *testing.T) {
	if got := Render("t-{increment}", Replacements{Number: 3}); got != "t-0003" {
		t.Fatalf("expected t-0003, got %q", got)
	}
}

func TestRenderStripsInvalidCharacters(t *testing.T) {
	got := Render("help {username}!", Replacements{Username: "ste ve#99"})
	if got != "helpsteve99" {
		t.Fatalf("expected helpsteve99, got %q", got)
	}
}

func TestRenderUnknownTokenLeftLiteral(t *testing.T) {
	// Unknown tokens survive substitution; the filter removes the braces.
	got := Render("ticket-{bogus}-{num}", Replacements{Number: 1})
	if got != "ticket-bogus-0001" {
		t.Fatalf("expected ticket-bogus-0001, got %q", got)
	}
}

func TestRenderTruncates(t *testing.T) {
	template := strings.Repeat("a", 150) + "-{num}"
	got := Render(template, Replacements{Number: 9})
	if len(got) != MaxLength {
		t.Fatalf("expected length %d, got %d", MaxLength, len(got))
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := Replacements{Number: 12, Username: "alex", Category: "billing"}
	first := Render("{category}-{username}-{num}", r)
	second := Render("{category}-{username}-{num}", r)
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
}

func TestRenderZeroNumber(t *testing.T) {
	// Zero is a valid counter value and pads like any other.
	got := Render("ticket-{num}", Replacements{})
	if got != "ticket-0000" {
		t.Fatalf("expected ticket-0000, got %q", got)
	}
}

func TestRenderNegativeNumberLeavesToken(t *testing.T) {
	// A negative counter means none was assigned; the token text falls
	// through to the character filter.
	got := Render("ticket-{num}", Replacements{Number: -1})
	if got != "ticket-num" {
		t.Fatalf("expected ticket-num, got %q", got)
	}
}
