package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailure_Is(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := CollaboratorFailed("batch 3", cause)

	if !errors.Is(err, ErrCollaborator) {
		t.Fatal("errors.Is(err, ErrCollaborator) = false")
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false")
	}
	if errors.Is(err, ErrAbsent) {
		t.Fatal("collaborator failure should not match ErrAbsent")
	}
}

func TestFailure_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Failure
		want string
	}{
		{name: "subject and cause", err: Malformed("row 4", errors.New("2 columns")), want: "row 4: malformed input: 2 columns"},
		{name: "subject only", err: Absent("template Other Languages", nil), want: "template Other Languages: absent"},
		{name: "cause only", err: IntegrityViolated("", errors.New("9 != 10")), want: "integrity violation: 9 != 10"},
		{name: "bare", err: &Failure{Reason: ErrAbsent}, want: "absent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailure_As(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("fetch page: %w", Absent("page Foo", nil))

	var f *Failure
	if !errors.As(wrapped, &f) {
		t.Fatal("errors.As should find *Failure")
	}
	if f.Subject != "page Foo" {
		t.Errorf("Subject = %q, want %q", f.Subject, "page Foo")
	}
}

func TestReasonOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "plain", err: errors.New("boom"), want: nil},
		{name: "absent", err: Absent("x", nil), want: ErrAbsent},
		{name: "wrapped malformed", err: fmt.Errorf("read: %w", Malformed("x", nil)), want: ErrMalformed},
		{name: "integrity", err: IntegrityViolated("x", nil), want: ErrIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReasonOf(tt.err); got != tt.want {
				t.Errorf("ReasonOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrAbsent, ErrMalformed, ErrCollaborator, ErrIntegrity}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
