package shortlink

import (
	"strings"
	"testing"
)

func TestCodeIsDeterministic(t *testing.T) {
	first := Code("secret", 42)
	second := Code("secret", 42)
	if first != second {
		t.Fatalf("expected stable code, got %q and %q", first, second)
	}
}

func TestCodeVariesByRecipe(t *testing.T) {
	if Code("secret", 1) == Code("secret", 2) {
		t.Fatal("expected different codes for different recipes")
	}
}

func TestCodeVariesBySecret(t *testing.T) {
	if Code("one", 7) == Code("two", 7) {
		t.Fatal("expected different codes for different secrets")
	}
}

func TestCodeIsURLSafe(t *testing.T) {
	code := Code("secret", 99)
	if strings.ContainsAny(code, "+/=") {
		t.Fatalf("expected URL-safe code without padding, got %q", code)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8-character code, got %q", code)
	}
}

func TestDecodeRecipeID(t *testing.T) {
	cases := []struct {
		code   string
		wantID int64
		wantOK bool
	}{
		{"1", 1, true},
		{"z", 35, true},
		{"10", 36, true},
		{"A", 10, true},
		{"", 0, false},
		{"  ", 0, false},
		{"0", 0, false},
		{"@@", 0, false},
	}
	for _, tc := range cases {
		id, ok := DecodeRecipeID(tc.code)
		if ok != tc.wantOK || id != tc.wantID {
			t.Fatalf("DecodeRecipeID(%q) = (%d, %v), want (%d, %v)", tc.code, id, ok, tc.wantID, tc.wantOK)
		}
	}
}
