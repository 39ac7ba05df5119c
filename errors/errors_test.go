package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResume,
				Kind:   KindTypeMismatch,
				Proc:   "anim::fade_banner",
				Detail: "want time.Time, got string",
			},
			contains: []string{"[resume]", "type_mismatch", "anim::fade_banner", "want time.Time, got string"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhasePoll,
				Kind:  KindMisuse,
			},
			contains: []string{"[poll]", "misuse"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhasePoll,
				Kind:   KindBackgroundFailed,
				Detail: "background work failed",
				Cause:  errors.New("connection refused"),
			},
			contains: []string{"[poll]", "background_failed", "caused by", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhasePoll,
		Kind:  KindBackgroundFailed,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := &Error{Phase: PhaseResume, Kind: KindTypeMismatch, Detail: "one"}
	b := &Error{Phase: PhaseResume, Kind: KindTypeMismatch, Detail: "two"}
	c := &Error{Phase: PhasePoll, Kind: KindTypeMismatch}

	if !errors.Is(a, b) {
		t.Error("errors with same phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different phase should not match")
	}
	if errors.Is(a, errors.New("plain")) {
		t.Error("structured error should not match plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseTransform, KindInvalidProc).
		Proc("game::spawn_wave").
		Detail("procedure has %d results, want none", 2).
		Value(2).
		Cause(cause).
		Build()

	if err.Phase != PhaseTransform || err.Kind != KindInvalidProc {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Proc != "game::spawn_wave" {
		t.Errorf("unexpected proc: %q", err.Proc)
	}
	if err.Detail != "procedure has 2 results, want none" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if err.Value != 2 || err.Cause != cause {
		t.Error("value or cause not carried through")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := TypeMismatch(PhaseResume, "int", "string").Error(); !strings.Contains(got, "want int, got string") {
		t.Errorf("TypeMismatch message: %q", got)
	}
	if got := NotFound(PhaseRegister, "procedure", "demo::missing").Error(); !strings.Contains(got, `procedure "demo::missing" not found`) {
		t.Errorf("NotFound message: %q", got)
	}
	if got := InvalidProc("demo::bad", "has a receiver").Error(); !strings.Contains(got, "demo::bad") {
		t.Errorf("InvalidProc message: %q", got)
	}

	bg := BackgroundFailed(errors.New("panic: nil deref"))
	if bg.Kind != KindBackgroundFailed || bg.Phase != PhasePoll {
		t.Error("BackgroundFailed should be a poll-phase background_failed error")
	}
}
