package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestIs(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"same instance": {
			kind: ErrNotFound,
			err:  ErrNotFound,
			want: true,
		},
		"wrapped once": {
			kind: ErrNotFound,
			err:  Wrap(ErrNotFound, "escrow"),
			want: true,
		},
		"wrapped twice": {
			kind: ErrUnauthorized,
			err:  Wrapf(Wrap(ErrUnauthorized, "maker"), "refund %d", 1),
			want: true,
		},
		"other class": {
			kind: ErrNotFound,
			err:  Wrap(ErrDuplicate, "escrow"),
			want: false,
		},
		"stdlib error": {
			kind: ErrNotFound,
			err:  stderrors.New("not found"),
			want: false,
		},
		"nil kind matches nil": {
			kind: nil,
			err:  nil,
			want: true,
		},
		"nil kind does not match error": {
			kind: nil,
			err:  ErrInput,
			want: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	Register(ErrNotFound.code, "again")
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered": {
			err:      Wrap(ErrInsufficientAmount, "vault"),
			wantCode: ErrInsufficientAmount.code,
			wantLog:  "vault: insufficient amount",
		},
		"stdlib is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"panic is redacted": {
			err:      Wrap(ErrPanic, "index out of range"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestStackTraceFormatting(t *testing.T) {
	err := Wrap(ErrState, "closed")
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace missing: %s", full)
	}
	if got := fmt.Sprintf("%v", err); got != "closed: invalid state" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := run(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestABCIError(t *testing.T) {
	if err := ABCIError(SuccessCode, ""); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	code, log := ABCIInfo(Wrap(ErrNotFound, "escrow"), false)
	err := ABCIError(code, log)
	if !ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %v", err)
	}
	if err.Error() != "escrow: not found" {
		t.Fatalf("unexpected message %q", err)
	}
	if Code(err) != ErrNotFound.ABCICode() {
		t.Fatalf("unexpected code %d", Code(err))
	}

	err = ABCIError(987654, "who knows")
	if Code(err) != internalCode {
		t.Fatalf("want internal code, got %d", Code(err))
	}
}
