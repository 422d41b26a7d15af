package errorx

import (
	"errors"
	"testing"
)

func TestWrapKeepsCauseOutOfMsg(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeDBError, "create message")

	if got := GetCode(err); got != CodeDBError {
		t.Fatalf("GetCode = %d, want %d", got, CodeDBError)
	}
	if got := GetMsg(err); got != "create message" {
		t.Fatalf("GetMsg = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should reach the wrapped cause")
	}
	if !IsInternal(err) {
		t.Fatal("db errors are internal")
	}
}

func TestPlainErrorFallsBackToServerBusy(t *testing.T) {
	err := errors.New("boom")
	if GetCode(err) != CodeServerBusy {
		t.Fatalf("unexpected code %d", GetCode(err))
	}
	if GetMsg(err) != ErrServerBusy.Msg {
		t.Fatalf("unexpected msg %q", GetMsg(err))
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(CodeNotFound, "workspace not found"), true},
		{Newf(CodeUserNotExist, "user %s not found", "42"), true},
		{ErrForbidden, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsNotFound(c.err); got != c.want {
			t.Errorf("IsNotFound(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
