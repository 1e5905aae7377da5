package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := Conflictf("slot %s already booked", "09:00")
	if KindOf(err) == KindUnknown {
		t.Fatal("expected classified error")
	}
	if KindOf(err) != KindConflict {
		t.Errorf("expected conflict, got %v", KindOf(err))
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := NotFoundf("doctor not found")
	outer := fmt.Errorf("booking: %w", inner)
	if KindOf(outer) != KindNotFound {
		t.Errorf("expected not_found through wrapping, got %v", KindOf(outer))
	}
}

func TestKindOf_Plain(t *testing.T) {
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Error("plain error should be unclassified")
	}
	if KindOf(nil) != KindUnknown {
		t.Error("nil should be unclassified")
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Wrap(KindConflict, cause, "time slot already booked")
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if KindOf(err) != KindConflict {
		t.Errorf("expected conflict, got %v", KindOf(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindAuthorization, http.StatusForbidden},
		{KindUpstream, http.StatusBadGateway},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.kind); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := Validationf("startTime %q outside shift", "22:00")
	if err.Error() != `startTime "22:00" outside shift` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
