package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestExitStatusMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeValidation, ExitValidation},
		{ErrorCodeConfig, ExitValidation},
		{ErrorCodeInvalidArgument, ExitUsage},
		{ErrorCodeNotFound, ExitNotFound},
		{ErrorCodeIO, ExitIO},
		{ErrorCodeConflict, ExitConflict},
		{ErrorCodeDB, ExitDB},
		{ErrorCodeUnavailable, ExitDB},
		{ErrorCodeUnknown, ExitFailure},
		{9999, ExitFailure}, // default branch
	}
	for _, c := range cases {
		if got := ExitStatus(c.code); got != c.want {
			t.Fatalf("ExitStatus(%v) = %d, want %d", c.code, got, c.want)
		}
	}

	if ExitCode(nil) != ExitOK {
		t.Fatalf("ExitCode(nil) should be ExitOK")
	}
	if ExitCode(stderrs.New("foreign")) != ExitFailure {
		t.Fatalf("foreign errors should exit with ExitFailure")
	}
	if ExitCode(fmt.Errorf("ctx: %w", NotFoundf("companies/"))) != ExitNotFound {
		t.Fatalf("wrapped not found should exit with ExitNotFound")
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeConfig, "bad driver %q", "ftp")
	if got := e2.Error(); got != `bad driver "ftp"` {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "read failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeNotFound, "missing %s", "dump")
	if want := "missing dump: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeNotFound {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write mutators
	e5 := Wrap(src, ErrorCodeValidation, "oops")
	e6 := WithField(e5, "navn")
	e7 := WithOp(e6, "split")
	e8 := WithHints(e7, "AS", "ENK")
	if fe, ok := As(e6); !ok || fe.Field() != "navn" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "split" {
		t.Fatalf("WithOp failed")
	}
	if hs := HintsOf(e8); len(hs) != 2 || hs[0] != "AS" || hs[1] != "ENK" {
		t.Fatalf("WithHints failed: %v", hs)
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" || len(fe0.Hints()) != 0 {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src || WithHints(src, "x") != src {
		t.Fatalf("mutators should pass foreign errors through")
	}
	if HintsOf(src) != nil {
		t.Fatalf("HintsOf(foreign) should be nil")
	}

	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Validationf("x"), ErrorCodeValidation) ||
		!IsCode(Configf("x"), ErrorCodeConfig) ||
		!IsCode(Conflictf("x"), ErrorCodeConflict) ||
		!IsCode(IOf(src, "x"), ErrorCodeIO) ||
		!IsCode(DBf("x"), ErrorCodeDB) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeIO, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeIO, "io") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}

	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeConflict.String() != "conflict" || ErrorCode(999).String() != "unknown" {
		t.Fatalf("unexpected labels: %s %s", ErrorCodeConflict, ErrorCode(999))
	}
}
