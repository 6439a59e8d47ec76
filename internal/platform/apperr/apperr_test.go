package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageFallsBackToKind(t *testing.T) {
	err := E(KindForbidden, "")
	if err.Error() != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", err.Error(), KindForbidden)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(E(tc.kind, "boom")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusUntypedError(t *testing.T) {
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestHTTPStatusNil(t *testing.T) {
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
}

func TestHTTPStatusWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", E(KindNotFound, "recipe not found"))
	if got := HTTPStatus(wrapped); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus = %d, want %d", got, http.StatusNotFound)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("db closed")
	err := Wrap(KindUnknown, "query failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in error chain")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(E(KindUnauthorized, "no token")); got != KindUnauthorized {
		t.Fatalf("KindOf = %q, want %q", got, KindUnauthorized)
	}
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Fatalf("KindOf = %q, want %q", got, KindUnknown)
	}
}
